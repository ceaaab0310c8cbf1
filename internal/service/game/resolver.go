package game

import (
	"math/rand/v2"

	model "github.com/boucegame/HumanOrNot/internal/model/game"
	"github.com/boucegame/HumanOrNot/internal/model/persona"
)

// Resolver decides which kind of opponent a session gets. The actual
// matchmaking delay is scheduled by the controller so that the decision runs
// against the candidate pool as it exists when the delay elapses.
type Resolver struct {
	personas persona.Store
	aiChance float64
	randF    func() float64
	randN    func(n int) int
}

// NewResolver builds a resolver drawing personas from the given store and
// matching against a simulated opponent with the given probability.
func NewResolver(personas persona.Store, aiChance float64) *Resolver {
	return &Resolver{
		personas: personas,
		aiChance: aiChance,
		randF:    rand.Float64,
		randN:    rand.IntN,
	}
}

// Resolve picks an opponent for the session. Candidates is the set of peers
// currently ready and unmatched, excluding the local player. An empty pool
// always resolves to a simulated opponent.
func (r *Resolver) Resolve(candidates []string) model.Opponent {
	if r.randF() < r.aiChance || len(candidates) == 0 {
		return r.Simulated()
	}

	peer := candidates[r.randN(len(candidates))]
	return model.Opponent{Kind: model.KindHuman, PeerID: peer}
}

// Simulated picks a persona uniformly at random. Also the fallback when a
// chosen human candidate is claimed by someone else first.
func (r *Resolver) Simulated() model.Opponent {
	items := r.personas.List()
	if len(items) == 0 {
		return model.Opponent{Kind: model.KindSimulated}
	}
	p := items[r.randN(len(items))]
	return model.Opponent{Kind: model.KindSimulated, Persona: &p}
}
