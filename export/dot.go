package export

import (
	"cflow/connections"
	"cflow/diagram"
	"fmt"
	"strings"
)

// DOTExporter exports graphs to Graphviz DOT syntax
type DOTExporter struct {
	opts Options
}

// NewDOTExporter creates a new DOT exporter
func NewDOTExporter(opts Options) *DOTExporter {
	return &DOTExporter{opts: opts}
}

// Export converts the graph to a DOT digraph.
func (e *DOTExporter) Export(g diagram.Graph) ([]byte, error) {
	if err := requireNodes(g); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, style=\"rounded,filled\"];\n")
	sb.WriteString("  edge [arrowhead=normal];\n\n")

	for _, node := range g.Nodes {
		style := e.opts.Theme.Card(node.Kind)
		attrs := []string{
			fmt.Sprintf("label=\"%s\"", e.escapeLabel(node.Label)),
			fmt.Sprintf("fillcolor=\"%s\"", style.Fill),
			fmt.Sprintf("color=\"%s\"", style.Border),
		}
		if node.Kind == diagram.KindCondition {
			attrs = append(attrs, "shape=diamond")
		}
		sb.WriteString(fmt.Sprintf("  N%d [%s];\n", node.ID, strings.Join(attrs, ", ")))
	}

	_, conns := buildScene(g, e.opts.Geometry)
	if len(conns) > 0 {
		sb.WriteString("\n")
	}
	for _, c := range conns {
		id, ok := c.Target.Get()
		if !ok {
			continue
		}
		switch c.Relation {
		case diagram.RelationYes:
			sb.WriteString(fmt.Sprintf("  N%d -> N%d [label=\"Yes\", color=\"%s\"];\n", c.Source, id, e.opts.Theme.Yes))
		case diagram.RelationNo:
			sb.WriteString(fmt.Sprintf("  N%d -> N%d [label=\"No\", color=\"%s\"];\n", c.Source, id, e.opts.Theme.No))
		default:
			sb.WriteString(fmt.Sprintf("  N%d -> N%d;\n", c.Source, id))
		}
	}

	// Siblings of a fan-out or of a yes/no pair share a rank.
	for _, group := range connections.GroupBySource(conns) {
		var ids []string
		for _, c := range group.Connections {
			if id, ok := c.Target.Get(); ok {
				ids = append(ids, fmt.Sprintf("N%d", id))
			}
		}
		if len(ids) > 1 {
			sb.WriteString(fmt.Sprintf("  { rank=same; %s; }\n", strings.Join(ids, "; ")))
		}
	}

	sb.WriteString("}\n")
	return []byte(sb.String()), nil
}

func (e *DOTExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	return label
}

// GetFileExtension returns the recommended file extension
func (e *DOTExporter) GetFileExtension() string {
	return ".dot"
}

// GetFormatName returns the format name
func (e *DOTExporter) GetFormatName() string {
	return "Graphviz DOT"
}
