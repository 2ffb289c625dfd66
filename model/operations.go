package model

import (
	"cflow/diagram"
	"fmt"
)

// AddNode creates a card of the given kind near anchor and wires it as the
// relation successor of sourceID. next appends to the sequence; yes/no is
// only set when that branch is open. Returns the new node's id.
func (m *Model) AddNode(sourceID int, rel diagram.Relation, anchor diagram.Point, kind diagram.Kind) (int, error) {
	idx := m.graph.Index(sourceID)
	if idx < 0 {
		return 0, fmt.Errorf("add from node %d: %w", sourceID, diagram.ErrInvalidSource)
	}
	if _, err := diagram.ParseKind(string(kind)); err != nil {
		return 0, fmt.Errorf("add from node %d: %w", sourceID, err)
	}

	source := m.graph.Nodes[idx]
	if source.Links == nil || !source.Links.Accepts(rel) {
		return 0, fmt.Errorf("add %s from %s node %d: %w", rel, source.Kind, sourceID, diagram.ErrInvalidRelation)
	}

	newID := m.nextID()

	// Build the updated source before touching the graph so a rejected
	// add leaves the model untouched.
	var links diagram.Successors
	switch l := source.Links.(type) {
	case diagram.Linear:
		next := make([]int, len(l.Next), len(l.Next)+1)
		copy(next, l.Next)
		links = diagram.Linear{Next: append(next, newID)}
	case diagram.Branch:
		if l.Get(rel).Set {
			return 0, fmt.Errorf("add %s from node %d: %w", rel, sourceID, diagram.ErrBranchTaken)
		}
		if rel == diagram.RelationYes {
			l.Yes = diagram.To(newID)
		} else {
			l.No = diagram.To(newID)
		}
		links = l
	}

	m.graph.Nodes[idx].Links = links
	m.graph.Nodes = append(m.graph.Nodes, diagram.Node{
		ID:       newID,
		Kind:     kind,
		Label:    fmt.Sprintf("New %s card", kind),
		Position: m.geometry.DropPosition(anchor),
		Links:    diagram.NewSuccessors(kind),
	})
	m.highWater = newID

	m.commit(OpAdd, newID)
	return newID, nil
}

// RemoveNode deletes a non-trigger node and, in the same step, strips every
// reference to it from the remaining nodes. A cleared yes/no becomes open.
func (m *Model) RemoveNode(id int) error {
	idx := m.graph.Index(id)
	if idx < 0 {
		return fmt.Errorf("remove node %d: %w", id, diagram.ErrNotFound)
	}
	if m.graph.Nodes[idx].IsTrigger() {
		return fmt.Errorf("remove node %d: %w", id, diagram.ErrForbidden)
	}

	nodes := make([]diagram.Node, 0, len(m.graph.Nodes)-1)
	for i, n := range m.graph.Nodes {
		if i == idx {
			continue
		}
		if n.Links != nil {
			n.Links = n.Links.Without(id)
		}
		nodes = append(nodes, n)
	}
	m.graph.Nodes = nodes

	m.commit(OpRemove, id)
	return nil
}

// RepositionNode overwrites a node's position. Relations are untouched.
func (m *Model) RepositionNode(id int, pos diagram.Point) error {
	idx := m.graph.Index(id)
	if idx < 0 {
		return fmt.Errorf("reposition node %d: %w", id, diagram.ErrNotFound)
	}
	m.graph.Nodes[idx].Position = pos

	m.commit(OpReposition, id)
	return nil
}
