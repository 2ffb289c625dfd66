// Package validation checks that a flowchart payload is structurally sound
// before it is handed to the model.
package validation

import (
	"cflow/diagram"
	"errors"
	"fmt"
)

// ValidationError represents a validation error with location information.
type ValidationError struct {
	NodeID  int
	Field   string
	Message string
}

// Error implements error.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("node %d: %s", e.NodeID, e.Message)
	}
	return fmt.Sprintf("node %d %s: %s", e.NodeID, e.Field, e.Message)
}

// GraphValidator validates node identity, relation legality and
// referential integrity of a graph.
type GraphValidator struct {
	errors         []ValidationError
	requireTrigger bool // Exactly one trigger must exist
}

// NewGraphValidator creates a new validator with default settings.
func NewGraphValidator() *GraphValidator {
	return &GraphValidator{
		requireTrigger: true,
	}
}

// SetRequireTrigger enables or disables the single-trigger rule.
func (v *GraphValidator) SetRequireTrigger(require bool) {
	v.requireTrigger = require
}

// Validate checks a graph and returns every problem found, in node order.
func (v *GraphValidator) Validate(g diagram.Graph) []ValidationError {
	v.errors = nil

	ids := make(map[int]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if ids[n.ID] {
			v.addError(n.ID, "id", "duplicate node id")
		}
		ids[n.ID] = true
	}

	triggers := 0
	for _, n := range g.Nodes {
		if n.IsTrigger() {
			triggers++
		}
		v.checkNode(n, ids)
	}

	if v.requireTrigger {
		switch {
		case triggers == 0:
			v.errors = append(v.errors, ValidationError{NodeID: 0, Message: "graph has no trigger node"})
		case triggers > 1:
			v.errors = append(v.errors, ValidationError{NodeID: 0, Message: fmt.Sprintf("graph has %d trigger nodes, want 1", triggers)})
		}
	}

	return v.errors
}

// checkNode validates a single node's kind and successor fields.
func (v *GraphValidator) checkNode(n diagram.Node, ids map[int]bool) {
	if _, err := diagram.ParseKind(string(n.Kind)); err != nil {
		v.addError(n.ID, "kind", err.Error())
		return
	}

	switch links := n.Links.(type) {
	case diagram.Branch:
		if n.Kind != diagram.KindCondition {
			v.addError(n.ID, "yes/no", fmt.Sprintf("%s node cannot carry yes/no", n.Kind))
			return
		}
		for _, r := range []diagram.Relation{diagram.RelationYes, diagram.RelationNo} {
			if id, ok := links.Get(r).Get(); ok && !ids[id] {
				v.addError(n.ID, r.String(), fmt.Sprintf("references missing node %d", id))
			}
		}
	case diagram.Linear:
		if n.Kind == diagram.KindCondition {
			v.addError(n.ID, "next", "condition node cannot carry next")
			return
		}
		seen := make(map[int]bool, len(links.Next))
		for _, id := range links.Next {
			if !ids[id] {
				v.addError(n.ID, "next", fmt.Sprintf("references missing node %d", id))
			}
			if seen[id] {
				v.addError(n.ID, "next", fmt.Sprintf("lists node %d more than once", id))
			}
			seen[id] = true
		}
	case nil:
		v.addError(n.ID, "", "missing successor fields")
	}
}

func (v *GraphValidator) addError(id int, field, msg string) {
	v.errors = append(v.errors, ValidationError{NodeID: id, Field: field, Message: msg})
}

// Check validates g with default settings and joins any problems into one error.
func Check(g diagram.Graph) error {
	problems := NewGraphValidator().Validate(g)
	if len(problems) == 0 {
		return nil
	}
	errs := make([]error, len(problems))
	for i, p := range problems {
		errs[i] = p
	}
	return errors.Join(errs...)
}
