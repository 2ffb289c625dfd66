// Package connections derives the connecting lines of a flowchart from its
// node relations and positions.
package connections

import (
	"cflow/diagram"
	"fmt"
)

// Connection is one derived segment between a node and a successor, or an
// open endpoint stub where the node has no successor for a relation.
// Connections are never stored; they are recomputed from a snapshot.
type Connection struct {
	Key      string           // Stable identifier, e.g. "1-next-2" or "2-yes-endpoint"
	Source   int              // Source node id
	Target   diagram.Target   // Successor, unset when Open
	Relation diagram.Relation // next, yes or no
	From     diagram.Point    // Anchor on the source card
	To       diagram.Point    // Target anchor, or stub end when Open
	Open     bool             // True for a dangling endpoint
}

// Key builds the stable key for a connection. An unset target produces the
// "endpoint" form.
func Key(source int, rel diagram.Relation, target diagram.Target) string {
	if id, ok := target.Get(); ok {
		return fmt.Sprintf("%d-%s-%d", source, rel, id)
	}
	return fmt.Sprintf("%d-%s-endpoint", source, rel)
}

// Derive computes the connection list for g. Nodes are visited in graph
// order and, per node, relations in the order next, yes, no. A reference
// that does not resolve to a node is skipped.
func Derive(g diagram.Graph, geo diagram.Geometry) []Connection {
	byID := make(map[int]diagram.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}

	var conns []Connection
	for _, n := range g.Nodes {
		switch links := n.Links.(type) {
		case diagram.Linear:
			from := geo.SourceAnchor(n, diagram.RelationNext)
			if len(links.Next) == 0 {
				conns = append(conns, open(n.ID, diagram.RelationNext, from, geo))
				continue
			}
			for _, id := range links.Next {
				if target, ok := byID[id]; ok {
					conns = append(conns, resolved(n.ID, diagram.RelationNext, diagram.To(id), from, geo.TargetAnchor(target)))
				}
			}
		case diagram.Branch:
			for _, rel := range []diagram.Relation{diagram.RelationYes, diagram.RelationNo} {
				from := geo.SourceAnchor(n, rel)
				t := links.Get(rel)
				id, ok := t.Get()
				if !ok {
					conns = append(conns, open(n.ID, rel, from, geo))
					continue
				}
				if target, found := byID[id]; found {
					conns = append(conns, resolved(n.ID, rel, t, from, geo.TargetAnchor(target)))
				}
			}
		}
	}
	return conns
}

func resolved(source int, rel diagram.Relation, target diagram.Target, from, to diagram.Point) Connection {
	return Connection{
		Key:      Key(source, rel, target),
		Source:   source,
		Target:   target,
		Relation: rel,
		From:     from,
		To:       to,
	}
}

func open(source int, rel diagram.Relation, from diagram.Point, geo diagram.Geometry) Connection {
	return Connection{
		Key:      Key(source, rel, diagram.Target{}),
		Source:   source,
		Relation: rel,
		From:     from,
		To:       geo.StubEnd(from),
		Open:     true,
	}
}

// Open returns the open endpoints of conns, preserving order.
func Open(conns []Connection) []Connection {
	var result []Connection
	for _, c := range conns {
		if c.Open {
			result = append(result, c)
		}
	}
	return result
}

// Find returns the connection with the given key.
func Find(conns []Connection, key string) (Connection, bool) {
	for _, c := range conns {
		if c.Key == key {
			return c, true
		}
	}
	return Connection{}, false
}
