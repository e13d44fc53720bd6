package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/yacobolo/classlens"
)

// ColorFinding is a color decoration located in a file.
type ColorFinding struct {
	File       string
	Line       int // 1-based
	Column     int // 1-based, in runes
	Token      string
	Hex        string
	SourceLine string
}

// Locate returns the 1-based line and rune column of offset in text and the
// line itself, without its terminator.
func Locate(text string, offset int) (line, column int, source string) {
	if offset > len(text) {
		offset = len(text)
	}
	start := strings.LastIndexByte(text[:offset], '\n') + 1
	end := strings.IndexByte(text[offset:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += offset
	}

	line = strings.Count(text[:start], "\n") + 1
	column = utf8.RuneCountInString(text[start:offset]) + 1
	source = strings.TrimSuffix(text[start:end], "\r")
	return line, column, source
}

// NewColorFindings locates decorations computed for text, the content of
// file.
func NewColorFindings(file, text string, decorations []classlens.ColorDecoration) []ColorFinding {
	out := make([]ColorFinding, 0, len(decorations))
	for _, d := range decorations {
		line, column, source := Locate(text, d.Span.Start)
		out = append(out, ColorFinding{
			File:       file,
			Line:       line,
			Column:     column,
			Token:      d.Span.In(text),
			Hex:        d.Color.String(),
			SourceLine: source,
		})
	}
	return out
}
