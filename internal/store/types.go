package store

import (
	"context"
	"time"
)

// PlayerRecord is the durable per-player state. Identity is the upsert key;
// the score only ever grows.
type PlayerRecord struct {
	ID        string    `json:"id"`
	Identity  string    `json:"identity"`
	Score     int       `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists player records keyed by identity.
type Store interface {
	// Find returns the record for an identity, reporting whether one exists.
	Find(ctx context.Context, identity string) (PlayerRecord, bool, error)
	// Upsert creates or updates the identity's record with the given score.
	Upsert(ctx context.Context, identity string, score int) (PlayerRecord, error)
	// Top returns up to limit records ordered by descending score.
	Top(ctx context.Context, limit int) ([]PlayerRecord, error)
	Close() error
}
