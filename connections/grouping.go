package connections

// Group is the set of connections leaving one source node.
type Group struct {
	Source      int
	Connections []Connection
	Indices     []int // Positions in the original list
}

// GroupBySource groups connections by source node. Groups appear in the
// order their source first occurs, so derivation order is kept.
func GroupBySource(conns []Connection) []Group {
	index := make(map[int]int)
	var groups []Group

	for i, c := range conns {
		gi, ok := index[c.Source]
		if !ok {
			gi = len(groups)
			index[c.Source] = gi
			groups = append(groups, Group{Source: c.Source})
		}
		groups[gi].Connections = append(groups[gi].Connections, c)
		groups[gi].Indices = append(groups[gi].Indices, i)
	}
	return groups
}
