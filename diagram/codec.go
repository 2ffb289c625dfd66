package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// nodeWire is the flat payload shape of a node. The type/text keys are
// accepted on input as aliases for kind/label.
type nodeWire struct {
	ID       int    `json:"id" yaml:"id"`
	Kind     Kind   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Type     Kind   `json:"type,omitempty" yaml:"type,omitempty"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	Position Point  `json:"position" yaml:"position"`
	Next     *[]int `json:"next,omitempty" yaml:"next,omitempty"`
	Yes      *int   `json:"yes,omitempty" yaml:"yes,omitempty"`
	No       *int   `json:"no,omitempty" yaml:"no,omitempty"`
}

func (n Node) wire() nodeWire {
	w := nodeWire{ID: n.ID, Kind: n.Kind, Label: n.Label, Position: n.Position}
	switch links := n.Links.(type) {
	case Branch:
		if id, ok := links.Yes.Get(); ok {
			w.Yes = &id
		}
		if id, ok := links.No.Get(); ok {
			w.No = &id
		}
	case Linear:
		next := append([]int{}, links.Next...)
		w.Next = &next
	default:
		if n.Kind != KindCondition {
			w.Next = &[]int{}
		}
	}
	return w
}

func (w nodeWire) node() (Node, error) {
	kind := w.Kind
	if kind == "" {
		kind = w.Type
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return Node{}, fmt.Errorf("node %d: %w", w.ID, err)
	}
	label := w.Label
	if label == "" {
		label = w.Text
	}

	n := Node{ID: w.ID, Kind: kind, Label: label, Position: w.Position}
	if kind == KindCondition {
		if w.Next != nil && len(*w.Next) > 0 {
			return Node{}, fmt.Errorf("node %d: condition cannot use next: %w", w.ID, ErrInvalidRelation)
		}
		var b Branch
		if w.Yes != nil {
			b.Yes = To(*w.Yes)
		}
		if w.No != nil {
			b.No = To(*w.No)
		}
		n.Links = b
		return n, nil
	}

	if w.Yes != nil || w.No != nil {
		return Node{}, fmt.Errorf("node %d: %s cannot use yes/no: %w", w.ID, kind, ErrInvalidRelation)
	}
	next := []int{}
	if w.Next != nil {
		next = append(next, *w.Next...)
	}
	n.Links = Linear{Next: next}
	return n, nil
}

// MarshalJSON encodes the node in its flat payload shape. Labels are kept
// readable: <, > and & are not escaped.
func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(n.wire()); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON decodes the flat payload shape.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w nodeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded, err := w.node()
	if err != nil {
		return err
	}
	*n = decoded
	return nil
}

// MarshalYAML encodes the node in its flat payload shape.
func (n Node) MarshalYAML() (interface{}, error) {
	return n.wire(), nil
}

// UnmarshalYAML decodes the flat payload shape.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var w nodeWire
	if err := value.Decode(&w); err != nil {
		return err
	}
	decoded, err := w.node()
	if err != nil {
		return err
	}
	*n = decoded
	return nil
}
