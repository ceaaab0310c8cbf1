package game

import (
	"time"

	"github.com/boucegame/HumanOrNot/internal/model/persona"
)

// OpponentKind tells which kind of partner a session was matched with. It is
// fixed when matchmaking completes and never changes afterwards.
type OpponentKind string

const (
	KindHuman     OpponentKind = "human"
	KindSimulated OpponentKind = "ai"
)

// Guess is the player's verdict at the end of a session. It shares the
// OpponentKind value space so scoring is a plain equality check.
type Guess = OpponentKind

// Opponent is a tagged descriptor: Persona is set only for simulated
// opponents, PeerID only for human ones.
type Opponent struct {
	Kind    OpponentKind     `json:"kind"`
	Persona *persona.Persona `json:"persona,omitempty"`
	PeerID  string           `json:"peerId,omitempty"`
}

// State enumerates the session lifecycle.
type State string

const (
	StateIdle             State = "idle"
	StateMatchmaking      State = "matchmaking"
	StateChatting         State = "chatting"
	StateAwaitingDecision State = "awaiting_decision"
	StateResult           State = "result"
)

// Session captures one matchmaking-through-result cycle. Exactly one session
// exists per player at a time; the controller replaces the whole value when a
// new match starts, so scheduled callbacks can compare the ID they captured
// against the current one and drop themselves when stale.
type Session struct {
	ID        string       `json:"id"`
	Opponent  Opponent     `json:"opponent"`
	CreatedAt time.Time    `json:"createdAt"`
	Decided   bool         `json:"decided"`
	Guess     OpponentKind `json:"guess,omitempty"`
}
