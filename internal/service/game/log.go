package game

import (
	"strings"

	model "github.com/boucegame/HumanOrNot/internal/model/game"
)

// MessageLog is the append-only transcript of the active session. It is not
// safe for concurrent use; the controller serializes access.
type MessageLog struct {
	turns []model.Turn
}

// NewMessageLog returns an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{turns: make([]model.Turn, 0, 16)}
}

// Append records a turn and returns it. Empty or whitespace-only text is a
// no-op, not an error: the second return value reports whether anything was
// appended.
func (l *MessageLog) Append(side model.Side, text string) (model.Turn, bool) {
	if strings.TrimSpace(text) == "" {
		return model.Turn{}, false
	}

	turn := model.Turn{Side: side, Text: text, Seq: len(l.turns)}
	l.turns = append(l.turns, turn)
	return turn, true
}

// Recent returns the last n turns in append order.
func (l *MessageLog) Recent(n int) []model.Turn {
	if n <= 0 {
		return nil
	}
	start := 0
	if len(l.turns) > n {
		start = len(l.turns) - n
	}
	out := make([]model.Turn, len(l.turns)-start)
	copy(out, l.turns[start:])
	return out
}

// Len reports how many turns have been appended.
func (l *MessageLog) Len() int {
	return len(l.turns)
}

// Reset clears the log for a new session.
func (l *MessageLog) Reset() {
	l.turns = l.turns[:0]
}
