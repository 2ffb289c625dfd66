// Package model holds the flowchart graph and the mutations that keep it
// referentially intact.
//
// Thread Safety:
// Model is NOT thread-safe. It is meant to be owned by a single event loop;
// hosts that share it between goroutines must synchronize externally.
package model

import (
	"cflow/diagram"
	"cflow/validation"
	"fmt"
)

// Model is the single owned, mutable flowchart store.
type Model struct {
	graph     diagram.Graph
	geometry  diagram.Geometry
	highWater int // Largest id ever present or assigned
	revision  int // Count of successful mutations
	observers map[int]Observer
	nextObs   int
}

// Option configures a Model.
type Option func(*Model)

// WithGeometry sets the geometry used to place newly added cards.
func WithGeometry(g diagram.Geometry) Option {
	return func(m *Model) {
		m.geometry = g
	}
}

// WithHighWater raises the id high-water mark to n, so a model restored
// from a snapshot never reissues ids removed before the snapshot was taken.
// Values below the graph's largest id are ignored.
func WithHighWater(n int) Option {
	return func(m *Model) {
		m.highWater = max(m.highWater, n)
	}
}

// New creates a model from an initial graph. The graph is validated and
// copied; later changes to g do not affect the model.
func New(g diagram.Graph, opts ...Option) (*Model, error) {
	if err := validation.Check(g); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}
	m := &Model{
		graph:     g.Clone(),
		geometry:  diagram.DefaultGeometry(),
		highWater: g.MaxID(),
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Snapshot returns a deep copy of the current graph.
func (m *Model) Snapshot() diagram.Graph {
	return m.graph.Clone()
}

// Node returns a copy of the node with the given id.
func (m *Model) Node(id int) (diagram.Node, bool) {
	n, ok := m.graph.Find(id)
	if !ok {
		return diagram.Node{}, false
	}
	return n.Clone(), true
}

// Len returns the number of nodes.
func (m *Model) Len() int {
	return len(m.graph.Nodes)
}

// Revision returns the number of successful mutations applied so far.
func (m *Model) Revision() int {
	return m.revision
}

// HighWater returns the largest id the model has ever held or assigned.
func (m *Model) HighWater() int {
	return m.highWater
}

// Geometry returns the geometry used for card placement.
func (m *Model) Geometry() diagram.Geometry {
	return m.geometry
}

// nextID allocates the id for a new node: one past every id the model
// has ever held, so ids stay strictly increasing even after removals.
func (m *Model) nextID() int {
	return m.highWater + 1
}
