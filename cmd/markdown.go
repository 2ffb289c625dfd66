package cmd

import (
	"cflow/diagram"
	"cflow/export"
	"cflow/importer"
	"cflow/markdown"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// blockRef names a flowchart block inside a Markdown file: "doc.md" is its
// first block, "doc.md#2" the second.
type blockRef struct {
	file  string
	block int
}

// parseBlockRef reports whether path refers to a Markdown file.
func parseBlockRef(path string) (blockRef, bool, error) {
	file, frag, hasFrag := strings.Cut(path, "#")
	switch strings.ToLower(filepath.Ext(file)) {
	case ".md", ".markdown":
	default:
		return blockRef{}, false, nil
	}

	ref := blockRef{file: file, block: 1}
	if hasFrag {
		n, err := strconv.Atoi(frag)
		if err != nil || n < 1 {
			return blockRef{}, true, fmt.Errorf("%s: block number must be a positive integer", path)
		}
		ref.block = n
	}
	return ref, true, nil
}

// read returns the block and the Markdown document holding it.
func (r blockRef) read() (markdown.Block, *markdown.Scanner, error) {
	data, err := os.ReadFile(r.file)
	if err != nil {
		return markdown.Block{}, nil, fmt.Errorf("read %s: %w", r.file, err)
	}
	s := markdown.NewScanner(string(data))
	block, err := s.Block(r.block)
	if err != nil {
		var found []string
		for i, b := range s.Blocks() {
			found = append(found, markdown.Describe(b, i))
		}
		if len(found) == 0 {
			return markdown.Block{}, nil, fmt.Errorf("%s: %w", r.file, err)
		}
		return markdown.Block{}, nil, fmt.Errorf("%s: %w; blocks: %s", r.file, err, strings.Join(found, ", "))
	}
	return block, s, nil
}

// readMarkdownGraph decodes the referenced block.
func readMarkdownGraph(ref blockRef, inputFormat string) (diagram.Graph, error) {
	block, _, err := ref.read()
	if err != nil {
		return diagram.Graph{}, err
	}
	registry := importer.NewImporterRegistry()
	var g diagram.Graph
	if inputFormat != "" {
		g, err = registry.ImportWithFormat(block.Content, inputFormat)
	} else {
		g, err = registry.Import(block.Content)
	}
	if err != nil {
		return diagram.Graph{}, fmt.Errorf("%s block %d: %w", ref.file, ref.block, err)
	}
	return g, nil
}

// markdownSaver writes edited graphs back into their block, refusing when
// the block was changed by someone else since it was last read or written.
type markdownSaver struct {
	ref   blockRef
	block markdown.Block
	opts  export.Options
}

func newMarkdownSaver(ref blockRef, opts export.Options) (*markdownSaver, error) {
	block, _, err := ref.read()
	if err != nil {
		return nil, err
	}
	return &markdownSaver{ref: ref, block: block, opts: opts}, nil
}

func (m *markdownSaver) save(g diagram.Graph) error {
	format := export.FormatYAML
	if m.block.IsJSON() {
		format = export.FormatJSON
	}
	exp, err := export.NewExporter(format, m.opts)
	if err != nil {
		return err
	}
	payload, err := exp.Export(g)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(m.ref.file)
	if err != nil {
		return err
	}
	s := markdown.NewScanner(string(data))
	content, err := s.Replace(m.block, string(payload))
	if err != nil {
		return fmt.Errorf("%s block %d: %w", m.ref.file, m.ref.block, err)
	}
	if err := os.WriteFile(m.ref.file, []byte(content), 0o644); err != nil {
		return err
	}

	block, err := s.Block(m.ref.block)
	if err != nil {
		return err
	}
	m.block = block
	return nil
}
