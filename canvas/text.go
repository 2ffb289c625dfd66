package canvas

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// UnicodeWidth returns the display width of a rune in terminal cells.
func UnicodeWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// StringWidth returns the display width of a string in terminal cells.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// WrapText wraps text to fit within maxWidth at word boundaries. A word
// longer than maxWidth is placed on its own line.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return nil
	}

	var lines []string
	var line strings.Builder
	width := 0

	for _, word := range strings.Fields(text) {
		w := StringWidth(word)
		if width > 0 && width+1+w > maxWidth {
			lines = append(lines, line.String())
			line.Reset()
			width = 0
		}
		if width > 0 {
			line.WriteRune(' ')
			width++
		}
		line.WriteString(word)
		width += w
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// WrapLabel wraps label to width cells and at most rows lines. The last
// kept line ends in an ellipsis when text was cut.
func WrapLabel(label string, width, rows int) []string {
	if width <= 0 || rows <= 0 {
		return nil
	}
	lines := WrapText(label, width)
	if len(lines) > rows {
		last := strings.Join(lines[rows-1:], " ")
		lines = append(lines[:rows-1], FitText(last, width-1, "")+"…")
	}
	for i, line := range lines {
		lines[i] = FitText(line, width, "…")
	}
	return lines
}

// FitText truncates text to fit within maxWidth, adding ellipsis if needed.
func FitText(text string, maxWidth int, ellipsis string) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxWidth, ellipsis)
}
