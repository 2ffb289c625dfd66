package editor

import (
	"cflow/connections"
	"cflow/diagram"
	"fmt"
)

// KindChooser picks the kind of a card being added at an open endpoint.
// It may call commit immediately or later (for example after the user
// picks from a popover); it must call it at most once.
type KindChooser interface {
	ChooseKind(endpoint connections.Connection, commit func(diagram.Kind) error)
}

// KindChooserFunc adapts a function to the KindChooser interface.
type KindChooserFunc func(endpoint connections.Connection, commit func(diagram.Kind) error)

// ChooseKind implements KindChooser.
func (f KindChooserFunc) ChooseKind(endpoint connections.Connection, commit func(diagram.Kind) error) {
	f(endpoint, commit)
}

// ChoosableKinds returns the kinds offered when adding a card.
func ChoosableKinds() []diagram.Kind {
	return []diagram.Kind{diagram.KindAction, diagram.KindCondition, diagram.KindEmail}
}

// StaticChooser commits the same kind every time. Err holds the result of
// the last commit.
type StaticChooser struct {
	Kind diagram.Kind
	Err  error
}

// ChooseKind implements KindChooser.
func (s *StaticChooser) ChooseKind(_ connections.Connection, commit func(diagram.Kind) error) {
	s.Err = commit(s.Kind)
}

// PendingChooser holds the choice open until the host calls Commit or
// Cancel, the way a popover menu would.
type PendingChooser struct {
	endpoint connections.Connection
	commit   func(diagram.Kind) error
}

// ChooseKind implements KindChooser. A new request replaces any pending one.
func (p *PendingChooser) ChooseKind(endpoint connections.Connection, commit func(diagram.Kind) error) {
	p.endpoint = endpoint
	p.commit = commit
}

// Pending returns the endpoint awaiting a choice.
func (p *PendingChooser) Pending() (connections.Connection, bool) {
	return p.endpoint, p.commit != nil
}

// Commit completes the pending choice with kind.
func (p *PendingChooser) Commit(kind diagram.Kind) error {
	if p.commit == nil {
		return fmt.Errorf("no kind choice pending: %w", diagram.ErrNotFound)
	}
	commit := p.commit
	p.Cancel()
	return commit(kind)
}

// Cancel drops the pending choice.
func (p *PendingChooser) Cancel() {
	p.endpoint = connections.Connection{}
	p.commit = nil
}
