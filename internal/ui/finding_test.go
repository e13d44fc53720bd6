package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yacobolo/classlens"
)

func TestLocate(t *testing.T) {
	text := "first\r\n\tsé bg-red-500\nlast"

	tests := []struct {
		name   string
		offset int
		line   int
		column int
		source string
	}{
		{"start", 0, 1, 1, "first"},
		{"carriage return trimmed", 3, 1, 4, "first"},
		{"after multibyte rune", 12, 2, 5, "\tsé bg-red-500"},
		{"last line", len(text) - 1, 3, 4, "last"},
		{"past the end", 999, 3, 5, "last"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, column, source := Locate(text, tt.offset)
			assert.Equal(t, tt.line, line)
			assert.Equal(t, tt.column, column)
			assert.Equal(t, tt.source, source)
		})
	}
}

func TestNewColorFindings(t *testing.T) {
	text := "<p class=\"p-4\n bg-white\">"
	findings := NewColorFindings("index.html", text, []classlens.ColorDecoration{
		{Span: classlens.Span{Start: 15, End: 23}, Color: classlens.Color{R: 1, G: 1, B: 1, A: 1}},
	})

	assert.Equal(t, []ColorFinding{{
		File:       "index.html",
		Line:       2,
		Column:     2,
		Token:      "bg-white",
		Hex:        "#ffffff",
		SourceLine: " bg-white\">",
	}}, findings)
}
