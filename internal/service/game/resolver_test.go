package game

import (
	"testing"

	model "github.com/boucegame/HumanOrNot/internal/model/game"
	"github.com/boucegame/HumanOrNot/internal/model/persona"
)

func testResolver(aiChance float64, randF func() float64, randN func(int) int) *Resolver {
	r := NewResolver(persona.NewMemoryStore(persona.Seed()), aiChance)
	if randF != nil {
		r.randF = randF
	}
	if randN != nil {
		r.randN = randN
	}
	return r
}

func TestResolveEmptyPoolIsSimulated(t *testing.T) {
	r := testResolver(0, func() float64 { return 0.99 }, nil)

	opp := r.Resolve(nil)
	if opp.Kind != model.KindSimulated {
		t.Fatalf("expected simulated opponent, got %s", opp.Kind)
	}
	if opp.Persona == nil {
		t.Fatal("expected a persona to be assigned")
	}
	if opp.PeerID != "" {
		t.Fatalf("unexpected peer ID %q on simulated opponent", opp.PeerID)
	}
}

func TestResolveCoinFlipForcesSimulated(t *testing.T) {
	r := testResolver(0.5, func() float64 { return 0.1 }, nil)

	opp := r.Resolve([]string{"peer-1", "peer-2"})
	if opp.Kind != model.KindSimulated {
		t.Fatalf("expected simulated opponent, got %s", opp.Kind)
	}
}

func TestResolvePicksHumanCandidate(t *testing.T) {
	r := testResolver(0.5,
		func() float64 { return 0.9 },
		func(n int) int { return 1 % n },
	)

	opp := r.Resolve([]string{"peer-1", "peer-2"})
	if opp.Kind != model.KindHuman {
		t.Fatalf("expected human opponent, got %s", opp.Kind)
	}
	if opp.PeerID != "peer-2" {
		t.Fatalf("expected peer-2, got %q", opp.PeerID)
	}
	if opp.Persona != nil {
		t.Fatal("unexpected persona on human opponent")
	}
}

func TestSimulatedWithoutPersonas(t *testing.T) {
	r := NewResolver(persona.NewMemoryStore(nil), 1)

	opp := r.Simulated()
	if opp.Kind != model.KindSimulated {
		t.Fatalf("expected simulated opponent, got %s", opp.Kind)
	}
	if opp.Persona != nil {
		t.Fatal("expected no persona from an empty store")
	}
}
