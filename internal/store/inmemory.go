package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a simple in-process record store for local/dev use.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]PlayerRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]PlayerRecord)}
}

func (s *InMemoryStore) Find(_ context.Context, identity string) (PlayerRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[identity]
	return record, ok, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, identity string, score int) (PlayerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[identity]
	if !ok {
		record = PlayerRecord{ID: uuid.NewString(), Identity: identity}
	}
	record.Score = score
	record.UpdatedAt = time.Now().UTC()
	s.records[identity] = record
	return record, nil
}

func (s *InMemoryStore) Top(_ context.Context, limit int) ([]PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]PlayerRecord, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Identity < out[j].Identity
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) Close() error { return nil }
