// Package postgres implements store.Store on PostgreSQL via pgx, keeping
// every revision as a jsonb snapshot row.
package postgres

import (
	"cflow/diagram"
	"cflow/store"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cflow_revisions (
    id         UUID PRIMARY KEY,
    seq        INTEGER NOT NULL,
    high_water INTEGER NOT NULL DEFAULT 0,
    graph      JSONB NOT NULL,
    saved_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

ALTER TABLE cflow_revisions ADD COLUMN IF NOT EXISTS high_water INTEGER NOT NULL DEFAULT 0;

CREATE INDEX IF NOT EXISTS idx_cflow_revisions_saved_at ON cflow_revisions(saved_at DESC);
`

// PGStore implements store.Store using PostgreSQL.
type PGStore struct {
	db *pgxpool.Pool
}

// New creates a PGStore backed by the given pgx connection pool.
func New(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// Connect opens a pool for dsn and makes sure the schema exists.
func Connect(ctx context.Context, dsn string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	s := New(pool)
	if err := s.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the pool.
func (s *PGStore) Close() {
	s.db.Close()
}

// CreateSchema creates the revisions table if it doesn't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	return nil
}

// DropSchema drops the revisions table.
func (s *PGStore) DropSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS cflow_revisions;`); err != nil {
		return fmt.Errorf("store: drop schema: %w", err)
	}
	return nil
}

// Reset implements store.Resetter: the table is dropped and recreated.
func (s *PGStore) Reset(ctx context.Context) error {
	if err := s.DropSchema(ctx); err != nil {
		return err
	}
	return s.CreateSchema(ctx)
}

// Load implements store.Store.
func (s *PGStore) Load(ctx context.Context) (store.Revision, error) {
	var (
		rev  store.Revision
		id   uuid.UUID
		data []byte
		at   time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, seq, high_water, graph, saved_at FROM cflow_revisions ORDER BY saved_at DESC, seq DESC LIMIT 1`,
	).Scan(&id, &rev.Seq, &rev.HighWater, &data, &at)
	if err != nil {
		if isNoRows(err) {
			return store.Revision{}, store.ErrEmpty
		}
		return store.Revision{}, fmt.Errorf("store: load: %w", err)
	}

	var g diagram.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return store.Revision{}, fmt.Errorf("store: decode revision %s: %w", id, err)
	}
	rev.ID = id
	rev.Graph = g
	rev.SavedAt = at
	return rev, nil
}

// Save implements store.Store.
func (s *PGStore) Save(ctx context.Context, rev store.Revision) error {
	data, err := json.Marshal(rev.Graph)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	if _, err := s.db.Exec(ctx,
		`INSERT INTO cflow_revisions (id, seq, high_water, graph, saved_at) VALUES ($1, $2, $3, $4, $5)`,
		rev.ID, rev.Seq, rev.HighWater, data, rev.SavedAt,
	); err != nil {
		return fmt.Errorf("store: insert revision %s: %w", rev.ID, err)
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
