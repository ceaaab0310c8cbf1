package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists player records in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS player_records (
			id TEXT PRIMARY KEY,
			identity TEXT NOT NULL UNIQUE,
			score INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_player_records_score ON player_records (score DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, identity string) (PlayerRecord, bool, error) {
	var r PlayerRecord
	err := s.pool.QueryRow(ctx,
		`SELECT id, identity, score, updated_at FROM player_records WHERE identity=$1`,
		identity,
	).Scan(&r.ID, &r.Identity, &r.Score, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PlayerRecord{}, false, nil
	}
	if err != nil {
		return PlayerRecord{}, false, fmt.Errorf("find record: %w", err)
	}
	return r, true, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, identity string, score int) (PlayerRecord, error) {
	record := PlayerRecord{
		ID:        uuid.NewString(),
		Identity:  identity,
		Score:     score,
		UpdatedAt: time.Now().UTC(),
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO player_records (id, identity, score, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (identity)
		 DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at
		 RETURNING id, identity, score, updated_at`,
		record.ID,
		record.Identity,
		record.Score,
		record.UpdatedAt,
	).Scan(&record.ID, &record.Identity, &record.Score, &record.UpdatedAt)
	if err != nil {
		return PlayerRecord{}, fmt.Errorf("upsert record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Top(ctx context.Context, limit int) ([]PlayerRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, identity, score, updated_at
		 FROM player_records ORDER BY score DESC, identity ASC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top records: %w", err)
	}
	defer rows.Close()

	items := make([]PlayerRecord, 0, limit)
	for rows.Next() {
		var r PlayerRecord
		if err := rows.Scan(&r.ID, &r.Identity, &r.Score, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record rows: %w", err)
	}

	return items, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
