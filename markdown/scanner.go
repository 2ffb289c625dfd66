// Package markdown finds flowchart payloads embedded in Markdown as fenced
// ```cflow code blocks and writes edited payloads back in place.
package markdown

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Language is the fence info string that marks a flowchart block.
const Language = "cflow"

var (
	// ErrNoBlock is returned when a requested block does not exist.
	ErrNoBlock = errors.New("no such cflow block")
	// ErrBlockChanged is returned when a block was edited since it was scanned.
	ErrBlockChanged = errors.New("block content has been modified externally")
)

// Block is one flowchart code block.
type Block struct {
	Content     string // Payload with the fence indentation removed
	StartLine   int    // Line of the opening fence (0-based)
	EndLine     int    // Line of the closing fence
	Indent      string // Indentation before the opening fence
	ContentHash string // SHA256 of Content at scan time
}

// IsJSON reports whether the block holds a JSON payload rather than YAML.
func (b Block) IsJSON() bool {
	return strings.HasPrefix(strings.TrimSpace(b.Content), "{")
}

// Scanner finds and replaces flowchart blocks in a Markdown document.
type Scanner struct {
	content string
	lines   []string
}

// NewScanner creates a scanner over content.
func NewScanner(content string) *Scanner {
	s := &Scanner{}
	s.setContent(content)
	return s
}

func (s *Scanner) setContent(content string) {
	s.content = content
	s.lines = strings.Split(content, "\n")
}

// Content returns the current document.
func (s *Scanner) Content() string {
	return s.content
}

// Blocks returns every flowchart block in document order. An unterminated
// block is ignored.
func (s *Scanner) Blocks() []Block {
	var blocks []Block
	var current *Block
	var body []string

	for i, line := range s.lines {
		trimmed := strings.TrimLeft(line, " \t")
		if current == nil {
			if isFlowFence(trimmed) {
				current = &Block{StartLine: i, Indent: line[:len(line)-len(trimmed)]}
				body = body[:0]
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") {
			current.EndLine = i
			current.Content = strings.Join(body, "\n")
			current.ContentHash = hash(current.Content)
			blocks = append(blocks, *current)
			current = nil
			continue
		}
		body = append(body, strings.TrimPrefix(line, current.Indent))
	}
	return blocks
}

// Block returns the n-th flowchart block, counting from 1.
func (s *Scanner) Block(n int) (Block, error) {
	blocks := s.Blocks()
	if n < 1 || n > len(blocks) {
		return Block{}, fmt.Errorf("block %d of %d: %w", n, len(blocks), ErrNoBlock)
	}
	return blocks[n-1], nil
}

// Validate checks that block still matches the document.
func (s *Scanner) Validate(block Block) error {
	if block.StartLine < 0 || block.EndLine >= len(s.lines) || block.StartLine >= block.EndLine {
		return fmt.Errorf("invalid block boundaries: start=%d, end=%d, total lines=%d",
			block.StartLine, block.EndLine, len(s.lines))
	}
	if !isFlowFence(strings.TrimLeft(s.lines[block.StartLine], " \t")) {
		return fmt.Errorf("line %d is no longer a %s fence: %w", block.StartLine+1, Language, ErrBlockChanged)
	}
	if !strings.HasPrefix(strings.TrimLeft(s.lines[block.EndLine], " \t"), "```") {
		return fmt.Errorf("line %d is no longer a closing fence: %w", block.EndLine+1, ErrBlockChanged)
	}

	body := make([]string, 0, block.EndLine-block.StartLine-1)
	for _, line := range s.lines[block.StartLine+1 : block.EndLine] {
		body = append(body, strings.TrimPrefix(line, block.Indent))
	}
	if hash(strings.Join(body, "\n")) != block.ContentHash {
		return ErrBlockChanged
	}
	return nil
}

// Replace swaps the body of block for payload, keeping the fences and the
// block's indentation, and returns the new document.
func (s *Scanner) Replace(block Block, payload string) (string, error) {
	if err := s.Validate(block); err != nil {
		return "", err
	}

	payload = strings.TrimRight(payload, "\n")
	lines := make([]string, 0, len(s.lines))
	lines = append(lines, s.lines[:block.StartLine+1]...)
	for _, line := range strings.Split(payload, "\n") {
		if line == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, block.Indent+line)
	}
	lines = append(lines, s.lines[block.EndLine:]...)

	s.setContent(strings.Join(lines, "\n"))
	return s.content, nil
}

// Describe returns a one-line summary of a block for listings.
func Describe(block Block, index int) string {
	format := "yaml"
	if block.IsJSON() {
		format = "json"
	}
	return fmt.Sprintf("%d. %s %s (line %d)", index+1, Language, format, block.StartLine+1)
}

func isFlowFence(trimmed string) bool {
	if !strings.HasPrefix(trimmed, "```") {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(trimmed, "```")), Language)
}

func hash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
