// Package diagram contains the fundamental types used throughout the cflow flowchart editor.
package diagram

import "fmt"

// Point represents a 2D coordinate in canvas space.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the component-wise difference p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Kind is the type of a flowchart card.
type Kind string

// Card kinds
const (
	KindTrigger   Kind = "trigger"
	KindCondition Kind = "condition"
	KindAction    Kind = "action"
	KindEmail     Kind = "email"
)

// Kinds returns every card kind in display order.
func Kinds() []Kind {
	return []Kind{KindTrigger, KindCondition, KindAction, KindEmail}
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindTrigger, KindCondition, KindAction, KindEmail:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown card kind: %q", s)
	}
}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Relation is the kind of edge from a node to one of its successors.
type Relation string

// Relation kinds
const (
	RelationNext Relation = "next"
	RelationYes  Relation = "yes"
	RelationNo   Relation = "no"
)

// Relations returns the relations in derivation order.
func Relations() []Relation {
	return []Relation{RelationNext, RelationYes, RelationNo}
}

// ParseRelation converts a string to a Relation.
func ParseRelation(s string) (Relation, error) {
	switch Relation(s) {
	case RelationNext, RelationYes, RelationNo:
		return Relation(s), nil
	default:
		return "", fmt.Errorf("unknown relation: %q", s)
	}
}

// String returns the relation name.
func (r Relation) String() string {
	return string(r)
}

// IsDecision reports whether r is one of the condition branches.
func (r Relation) IsDecision() bool {
	return r == RelationYes || r == RelationNo
}

// Target is an optional reference to a successor node.
// The zero value is an absent (open) target.
type Target struct {
	ID  int
	Set bool
}

// To returns a Target referencing id.
func To(id int) Target {
	return Target{ID: id, Set: true}
}

// Get returns the referenced id and whether the target is set.
func (t Target) Get() (int, bool) {
	return t.ID, t.Set
}

// Is reports whether t references id.
func (t Target) Is(id int) bool {
	return t.Set && t.ID == id
}

// Successors is the relation payload of a node. It is implemented by
// Linear (trigger, action and email cards) and Branch (condition cards),
// so a non-condition node cannot carry yes/no and a condition cannot carry next.
type Successors interface {
	// Accepts reports whether the relation is structurally valid here.
	Accepts(r Relation) bool
	// Refs returns every successor id in relation order.
	Refs() []int
	// Without returns a copy with every reference to id removed.
	Without(id int) Successors
	clone() Successors
}

// Linear holds the ordered next sequence of a trigger, action or email card.
type Linear struct {
	Next []int
}

// Accepts implements Successors.
func (l Linear) Accepts(r Relation) bool {
	return r == RelationNext
}

// Refs implements Successors.
func (l Linear) Refs() []int {
	return append([]int(nil), l.Next...)
}

// Without implements Successors.
func (l Linear) Without(id int) Successors {
	next := make([]int, 0, len(l.Next))
	for _, n := range l.Next {
		if n != id {
			next = append(next, n)
		}
	}
	return Linear{Next: next}
}

func (l Linear) clone() Successors {
	next := make([]int, len(l.Next))
	copy(next, l.Next)
	return Linear{Next: next}
}

// Branch holds the yes/no targets of a condition card.
type Branch struct {
	Yes Target
	No  Target
}

// Accepts implements Successors.
func (b Branch) Accepts(r Relation) bool {
	return r.IsDecision()
}

// Refs implements Successors.
func (b Branch) Refs() []int {
	var refs []int
	if id, ok := b.Yes.Get(); ok {
		refs = append(refs, id)
	}
	if id, ok := b.No.Get(); ok {
		refs = append(refs, id)
	}
	return refs
}

// Without implements Successors.
func (b Branch) Without(id int) Successors {
	if b.Yes.Is(id) {
		b.Yes = Target{}
	}
	if b.No.Is(id) {
		b.No = Target{}
	}
	return b
}

func (b Branch) clone() Successors {
	return b
}

// Get returns the target for a decision relation.
func (b Branch) Get(r Relation) Target {
	if r == RelationNo {
		return b.No
	}
	return b.Yes
}

// NewSuccessors returns the empty successor payload for a card kind.
func NewSuccessors(k Kind) Successors {
	if k == KindCondition {
		return Branch{}
	}
	return Linear{Next: []int{}}
}

// Node represents one card of the flowchart.
type Node struct {
	ID       int
	Kind     Kind
	Label    string
	Position Point
	Links    Successors
}

// IsTrigger reports whether n is the graph root.
func (n Node) IsTrigger() bool {
	return n.Kind == KindTrigger
}

// Next returns the next sequence, or nil for a condition.
func (n Node) Next() []int {
	if l, ok := n.Links.(Linear); ok {
		return l.Next
	}
	return nil
}

// Branches returns the yes/no payload and whether n is a condition.
func (n Node) Branches() (Branch, bool) {
	b, ok := n.Links.(Branch)
	return b, ok
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	if n.Links == nil {
		n.Links = NewSuccessors(n.Kind)
	} else {
		n.Links = n.Links.clone()
	}
	return n
}

// Graph is the full flowchart: an ordered list of nodes.
// Node order is the render and derivation order.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
}

// Clone creates a deep copy of the graph.
func (g Graph) Clone() Graph {
	nodes := make([]Node, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = n.Clone()
	}
	return Graph{Nodes: nodes}
}

// Index returns the position of node id in g.Nodes, or -1.
func (g Graph) Index(id int) int {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the node with the given id.
func (g Graph) Find(id int) (Node, bool) {
	if i := g.Index(id); i >= 0 {
		return g.Nodes[i], true
	}
	return Node{}, false
}

// Trigger returns the first trigger node of the graph.
func (g Graph) Trigger() (Node, bool) {
	for _, n := range g.Nodes {
		if n.IsTrigger() {
			return n, true
		}
	}
	return Node{}, false
}

// MaxID returns the largest node id, or 0 for an empty graph.
func (g Graph) MaxID() int {
	highest := 0
	for i, n := range g.Nodes {
		if i == 0 || n.ID > highest {
			highest = n.ID
		}
	}
	return highest
}
