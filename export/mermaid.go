package export

import (
	"cflow/diagram"
	"fmt"
	"strings"
)

// MermaidExporter exports graphs to Mermaid flowchart syntax
type MermaidExporter struct {
	opts Options
}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter(opts Options) *MermaidExporter {
	return &MermaidExporter{opts: opts}
}

// Export converts the graph to a top-down Mermaid flowchart. Open
// endpoints have no Mermaid equivalent and are left out.
func (e *MermaidExporter) Export(g diagram.Graph) ([]byte, error) {
	if err := requireNodes(g); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("flowchart TD\n")

	for _, node := range g.Nodes {
		sb.WriteString(fmt.Sprintf("    %s%s\n", e.getNodeID(node.ID), e.shape(node)))
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
		arrow := "-->"
		switch c.Relation {
		case diagram.RelationYes:
			arrow = "-->|Yes|"
		case diagram.RelationNo:
			arrow = "-->|No|"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", e.getNodeID(c.Source), arrow, e.getNodeID(id)))
	}

	// One class per kind, coloured like the cards
	sb.WriteString("\n")
	for _, kind := range diagram.Kinds() {
		style := e.opts.Theme.Card(kind)
		sb.WriteString(fmt.Sprintf("    classDef %s fill:%s,stroke:%s\n", kind, style.Fill, style.Border))
	}
	for _, kind := range diagram.Kinds() {
		var ids []string
		for _, node := range g.Nodes {
			if node.Kind == kind {
				ids = append(ids, e.getNodeID(node.ID))
			}
		}
		if len(ids) > 0 {
			sb.WriteString(fmt.Sprintf("    class %s %s\n", strings.Join(ids, ","), kind))
		}
	}

	return []byte(sb.String()), nil
}

func (e *MermaidExporter) getNodeID(id int) string {
	return fmt.Sprintf("N%d", id)
}

// shape wraps the label in the Mermaid shape for the card kind.
func (e *MermaidExporter) shape(node diagram.Node) string {
	label := e.escapeLabel(node.Label)
	if label == "" {
		label = fmt.Sprintf("Node%d", node.ID)
	}
	switch node.Kind {
	case diagram.KindTrigger:
		return fmt.Sprintf("([\"%s\"])", label)
	case diagram.KindCondition:
		return fmt.Sprintf("{\"%s\"}", label)
	case diagram.KindEmail:
		return fmt.Sprintf(">\"%s\"]", label)
	default:
		return fmt.Sprintf("[\"%s\"]", label)
	}
}

func (e *MermaidExporter) escapeLabel(label string) string {
	return strings.ReplaceAll(label, `"`, "#quot;")
}

// GetFileExtension returns the recommended file extension
func (e *MermaidExporter) GetFileExtension() string {
	return ".mmd"
}

// GetFormatName returns the format name
func (e *MermaidExporter) GetFormatName() string {
	return "Mermaid"
}
