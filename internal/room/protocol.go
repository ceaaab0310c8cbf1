package room

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies websocket payload variants.
type MessageType string

// Client-originated commands.
const (
	TypeStart    MessageType = "start"
	TypeChat     MessageType = "chat"
	TypeGuess    MessageType = "guess"
	TypeContinue MessageType = "continue"
)

// Server-originated events. Chat reuses TypeChat with the sender filled in.
const (
	TypeConnected    MessageType = "connected"
	TypeDisconnected MessageType = "disconnected"
	TypeMatchFound   MessageType = "matchFound"
	TypeTimeUp       MessageType = "timeUp"
	TypeSystem       MessageType = "system"
	TypeTyping       MessageType = "typing"
	TypeTick         MessageType = "tick"
	TypeScreen       MessageType = "screen"
	TypeResult       MessageType = "result"
	TypePresence     MessageType = "presence"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ChatMessage carries one chat line in either direction.
type ChatMessage struct {
	Type     MessageType `json:"type"`
	Message  string      `json:"message"`
	SenderID string      `json:"senderId,omitempty"`
}

// GuessMessage is the player's verdict: "human" or "ai".
type GuessMessage struct {
	Type   MessageType `json:"type"`
	Choice string      `json:"choice"`
}

// ConnectedMessage greets a client with its identity and saved score.
type ConnectedMessage struct {
	Type     MessageType `json:"type"`
	ClientID string      `json:"clientId"`
	Identity string      `json:"identity"`
	Score    int         `json:"score"`
}

// DisconnectedMessage announces a departed peer.
type DisconnectedMessage struct {
	Type     MessageType `json:"type"`
	ClientID string      `json:"clientId"`
}

// MatchFoundMessage tells a client its session has an opponent. IsAI is
// always false on the wire between humans; simulated matches are reported
// only to the local side after the decision is scored.
type MatchFoundMessage struct {
	Type       MessageType `json:"type"`
	IsAI       bool        `json:"isAI"`
	OpponentID string      `json:"opponentId,omitempty"`
}

// TimeUpMessage signals chat expiry.
type TimeUpMessage struct {
	Type MessageType `json:"type"`
}

// SystemMessage is an out-of-band notice rendered in the transcript.
type SystemMessage struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

// TypingMessage toggles the opponent's typing indicator.
type TypingMessage struct {
	Type   MessageType `json:"type"`
	Active bool        `json:"active"`
}

// TickMessage carries the remaining chat seconds.
type TickMessage struct {
	Type      MessageType `json:"type"`
	Remaining int         `json:"remaining"`
}

// ScreenMessage selects which UI surface is visible.
type ScreenMessage struct {
	Type MessageType `json:"type"`
	Name string      `json:"name"`
}

// ResultMessage reports the scored decision.
type ResultMessage struct {
	Type     MessageType `json:"type"`
	Correct  bool        `json:"correct"`
	Opponent string      `json:"opponent"`
	Points   int         `json:"points"`
	Score    int         `json:"score"`
}

// PresenceMessage mirrors a participant's shared status record.
type PresenceMessage struct {
	Type     MessageType `json:"type"`
	ClientID string      `json:"clientId"`
	Ready    bool        `json:"ready"`
	InGame   bool        `json:"inGame"`
	Score    int         `json:"score"`
}

// ParseClientMessage decodes one inbound client command.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeStart:
		return Envelope{Type: TypeStart}, nil
	case TypeChat:
		var msg ChatMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	case TypeGuess:
		var msg GuessMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.Choice != "human" && msg.Choice != "ai" {
			return nil, errors.New("invalid guess choice")
		}
		return msg, nil
	case TypeContinue:
		return Envelope{Type: TypeContinue}, nil
	default:
		return nil, ErrUnsupportedType
	}
}
