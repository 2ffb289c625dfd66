package model

import "cflow/diagram"

// Op identifies the mutation that produced a Change.
type Op int

const (
	OpAdd Op = iota
	OpRemove
	OpReposition
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	case OpReposition:
		return "reposition"
	default:
		return "unknown"
	}
}

// Change describes one successful mutation.
type Change struct {
	Op        Op
	NodeID    int           // Added, removed or moved node
	Revision  int           // Model revision after the mutation
	HighWater int           // Id high-water mark after the mutation
	Graph     diagram.Graph // Full snapshot after the mutation
}

// Observer is notified after every successful mutation.
type Observer interface {
	GraphChanged(c Change)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(c Change)

// GraphChanged implements Observer.
func (f ObserverFunc) GraphChanged(c Change) {
	f(c)
}

// Subscribe registers an observer and returns a function that removes it.
func (m *Model) Subscribe(o Observer) (cancel func()) {
	id := m.nextObs
	m.nextObs++
	m.observers[id] = o
	return func() {
		delete(m.observers, id)
	}
}

// commit bumps the revision and notifies observers in subscription order.
func (m *Model) commit(op Op, id int) {
	m.revision++
	if len(m.observers) == 0 {
		return
	}
	for i := 0; i < m.nextObs; i++ {
		o, ok := m.observers[i]
		if !ok {
			continue
		}
		o.GraphChanged(Change{
			Op:        op,
			NodeID:    id,
			Revision:  m.revision,
			HighWater: m.highWater,
			Graph:     m.graph.Clone(),
		})
	}
}
