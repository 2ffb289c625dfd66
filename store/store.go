// Package store persists flowchart snapshots for the HTTP host.
package store

import (
	"cflow/diagram"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmpty is returned by Load when nothing has been saved yet.
var ErrEmpty = errors.New("store: no saved graph")

// Revision is one saved state of the graph.
type Revision struct {
	ID        uuid.UUID     `json:"id"`
	Seq       int           `json:"seq"` // Model revision counter at save time
	HighWater int           `json:"high_water"`
	Graph     diagram.Graph `json:"graph"`
	SavedAt   time.Time     `json:"saved_at"`
}

// NewRevision stamps a graph with a fresh id. The high-water mark starts at
// the graph's largest id; callers holding a model should raise it with
// the model's own mark.
func NewRevision(seq int, g diagram.Graph) Revision {
	return Revision{
		ID:        uuid.New(),
		Seq:       seq,
		HighWater: g.MaxID(),
		Graph:     g,
		SavedAt:   time.Now().UTC(),
	}
}

// Store defines the contract for persisting and retrieving the graph.
type Store interface {
	// Load returns the latest saved revision, or ErrEmpty.
	Load(ctx context.Context) (Revision, error)
	// Save records rev as the latest revision.
	Save(ctx context.Context, rev Revision) error
}

// Resetter is implemented by stores that can discard every saved revision.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Memory keeps revisions in process. It backs the server when no
// persistent driver is configured.
type Memory struct {
	latest *Revision
	saves  int
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{}
}

// Load implements Store.
func (m *Memory) Load(_ context.Context) (Revision, error) {
	if m.latest == nil {
		return Revision{}, ErrEmpty
	}
	rev := *m.latest
	rev.Graph = rev.Graph.Clone()
	return rev, nil
}

// Save implements Store.
func (m *Memory) Save(_ context.Context, rev Revision) error {
	rev.Graph = rev.Graph.Clone()
	m.latest = &rev
	m.saves++
	return nil
}

// Saves returns the number of successful saves.
func (m *Memory) Saves() int {
	return m.saves
}

// Reset implements Resetter.
func (m *Memory) Reset(_ context.Context) error {
	m.latest = nil
	return nil
}
