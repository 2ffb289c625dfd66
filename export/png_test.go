package export

import (
	"strings"
	"testing"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
)

func TestPNGSurface_Wrap(t *testing.T) {
	ttf, err := parseFont()
	if err != nil {
		t.Fatal(err)
	}
	dc := gg.NewContext(400, 100)
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{Size: fontSize, DPI: 72}))
	s := &pngSurface{dc: dc}

	tests := []struct {
		name      string
		text      string
		rows      int
		wantLines int
		ellipsis  bool
	}{
		{"short", "Send email", 3, 1, false},
		{"wraps", "When someone purchases a product from the shop", 3, 2, false},
		{"overflow", "When someone purchases any product from the spring catalogue for the first time this year", 2, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := s.wrap(tt.text, 200, tt.rows)
			if len(lines) != tt.wantLines {
				t.Fatalf("got %d lines %q, want %d", len(lines), lines, tt.wantLines)
			}
			for _, line := range lines {
				if w, _ := dc.MeasureString(line); w > 200 {
					t.Errorf("line %q is %.0fpx wide", line, w)
				}
			}
			if got := strings.HasSuffix(lines[len(lines)-1], "…"); got != tt.ellipsis {
				t.Errorf("last line %q ellipsis = %v, want %v", lines[len(lines)-1], got, tt.ellipsis)
			}
		})
	}
}
