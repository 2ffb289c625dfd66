package export_test

import (
	"bytes"
	"cflow/diagram"
	"cflow/export"
	"strings"
	"testing"
)

func scenarioGraph() diagram.Graph {
	return diagram.Graph{Nodes: []diagram.Node{
		{ID: 1, Kind: diagram.KindTrigger, Label: "Start", Position: diagram.Point{X: 380, Y: 50}, Links: diagram.Linear{Next: []int{2}}},
		{ID: 2, Kind: diagram.KindCondition, Label: "Bought?", Position: diagram.Point{X: 380, Y: 150}, Links: diagram.Branch{Yes: diagram.To(3)}},
		{ID: 3, Kind: diagram.KindEmail, Label: `Say "thanks" <now>`, Position: diagram.Point{X: 100, Y: 300}, Links: diagram.Linear{Next: []int{}}},
	}}
}

func exportString(t *testing.T, format export.Format, g diagram.Graph) string {
	t.Helper()
	exp, err := export.NewExporter(format, export.DefaultOptions())
	if err != nil {
		t.Fatalf("NewExporter(%s) failed: %v", format, err)
	}
	out, err := exp.Export(g)
	if err != nil {
		t.Fatalf("Export(%s) failed: %v", format, err)
	}
	return string(out)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected export.Format
		wantErr  bool
	}{
		{"json", export.FormatJSON, false},
		{"yml", export.FormatYAML, false},
		{"mermaid", export.FormatMermaid, false},
		{"mmd", export.FormatMermaid, false},
		{"graphviz", export.FormatDOT, false},
		{"TXT", export.FormatASCII, false},
		{"svg", export.FormatSVG, false},
		{"png", export.FormatPNG, false},
		{"plantuml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := export.ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewExporter(t *testing.T) {
	for _, format := range export.GetAvailableFormats() {
		exp, err := export.NewExporter(format, export.DefaultOptions())
		if err != nil {
			t.Errorf("NewExporter(%s) failed: %v", format, err)
			continue
		}
		if !strings.HasPrefix(exp.GetFileExtension(), ".") {
			t.Errorf("%s extension = %q", format, exp.GetFileExtension())
		}
		if export.GetFormatDescriptions()[format] == "" {
			t.Errorf("%s has no description", format)
		}
	}
	if _, err := export.NewExporter("bogus", export.DefaultOptions()); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestJSONExport(t *testing.T) {
	out := exportString(t, export.FormatJSON, scenarioGraph())
	for _, want := range []string{`"kind": "condition"`, `"yes": 3`, `"next": []`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, `"no"`) {
		t.Error("absent no branch should be omitted")
	}
	if !strings.Contains(out, `Say \"thanks\" <now>`) {
		t.Errorf("label should keep < and > unescaped:\n%s", out)
	}

	empty := exportString(t, export.FormatJSON, diagram.Graph{})
	if !strings.Contains(empty, `"nodes": []`) {
		t.Errorf("empty graph JSON = %s", empty)
	}
}

func TestYAMLExport(t *testing.T) {
	out := exportString(t, export.FormatYAML, scenarioGraph())
	for _, want := range []string{"nodes:", "kind: trigger", "yes: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML missing %q:\n%s", want, out)
		}
	}
}

func TestMermaidExport(t *testing.T) {
	out := exportString(t, export.FormatMermaid, scenarioGraph())
	for _, want := range []string{
		"flowchart TD",
		`N1(["Start"])`,
		`N2{"Bought?"}`,
		`N3>"Say #quot;thanks#quot; <now>"]`,
		"N1 --> N2",
		"N2 -->|Yes| N3",
		"classDef condition fill:#f5f3ff,stroke:#7e57c2",
		"class N3 email",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Mermaid missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "endpoint") {
		t.Error("open endpoints should not be exported")
	}

	exp, _ := export.NewExporter(export.FormatMermaid, export.DefaultOptions())
	if _, err := exp.Export(diagram.Graph{}); err == nil {
		t.Error("empty graph should fail")
	}
}

func TestDOTExport(t *testing.T) {
	out := exportString(t, export.FormatDOT, scenarioGraph())
	for _, want := range []string{
		"digraph G {",
		"N2 [label=\"Bought?\", fillcolor=\"#f5f3ff\", color=\"#7e57c2\", shape=diamond];",
		`label="Say \"thanks\" <now>"`,
		"N1 -> N2;",
		`N2 -> N3 [label="Yes", color="#10b981"];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "rank=same") {
		t.Errorf("single branch should not be ranked:\n%s", out)
	}

	g := scenarioGraph()
	g.Nodes[1].Links = diagram.Branch{Yes: diagram.To(3), No: diagram.To(4)}
	g.Nodes = append(g.Nodes, diagram.Node{ID: 4, Kind: diagram.KindAction, Label: "Wait", Position: diagram.Point{X: 660, Y: 300}, Links: diagram.Linear{Next: []int{}}})
	out = exportString(t, export.FormatDOT, g)
	if !strings.Contains(out, "{ rank=same; N3; N4; }") {
		t.Errorf("yes/no targets should share a rank:\n%s", out)
	}
}

func TestASCIIExport(t *testing.T) {
	out := exportString(t, export.FormatASCII, scenarioGraph())
	for _, want := range []string{"Start", "Bought?", "Yes", "(+)"} {
		if !strings.Contains(out, want) {
			t.Errorf("ASCII missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("plain ASCII output should have no escapes")
	}

	opts := export.DefaultOptions()
	opts.Color = true
	exp, _ := export.NewExporter(export.FormatASCII, opts)
	colored, err := exp.Export(scenarioGraph())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !bytes.Contains(colored, []byte("\033[38;2;")) {
		t.Error("colour output should carry 24-bit escapes")
	}
}

func TestSVGExport(t *testing.T) {
	out := exportString(t, export.FormatSVG, scenarioGraph())
	for _, want := range []string{
		"<svg xmlns=\"http://www.w3.org/2000/svg\"",
		`data-key="2-no-endpoint"`,
		`data-key="1-next-2" points="530,110 530,130 530,130 530,150"`,
		`data-node="3" class="card email"`,
		"Say &#34;thanks&#34; &lt;now&gt;",
		">Yes</text>",
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(out, ">No</text>") {
		t.Error("open no branch should not be labelled")
	}
	if strings.Count(out, `class="add"`) != 2 {
		t.Errorf("want 2 add buttons")
	}
	if strings.Count(out, `class="remove"`) != 2 {
		t.Errorf("want 2 remove buttons")
	}
}

func TestSVGExport_WrapsLongLabels(t *testing.T) {
	g := diagram.Graph{Nodes: []diagram.Node{
		{ID: 1, Kind: diagram.KindTrigger, Label: "When someone purchases any product from the spring catalogue for the first time this year and again next spring", Links: diagram.Linear{Next: []int{}}},
	}}
	out := exportString(t, export.FormatSVG, g)

	if n := strings.Count(out, "<tspan"); n != 3 {
		t.Errorf("got %d label lines, want 3:\n%s", n, out)
	}
	if !strings.Contains(out, `<tspan x="24" y="13">When someone purchases any product</tspan>`) {
		t.Errorf("first line not wrapped at a word boundary:\n%s", out)
	}
	if !strings.Contains(out, "…</tspan>") {
		t.Errorf("overflowing label should end in an ellipsis:\n%s", out)
	}
}

func TestPNGExport(t *testing.T) {
	out := exportString(t, export.FormatPNG, scenarioGraph())
	if !strings.HasPrefix(out, "\x89PNG\r\n\x1a\n") {
		t.Error("output is not a PNG")
	}
}
