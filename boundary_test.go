package classlens

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindUsageSpan(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		offset   int
		expected Span
	}{
		{"inside first token", "m-2 text-red-500", 2, Span{0, 3}},
		{"end of token", "m-2 text-red-500", 3, Span{0, 3}},
		{"start of second token", "m-2 text-red-500", 4, Span{4, 16}},
		{"inside quotes", `<div class="p-4 flex">`, 13, Span{12, 15}},
		{"between separators", `class=""`, 7, Span{7, 7}},
		{"empty text", "", 0, Span{0, 0}},
		{"multibyte neighbours", "é m-2 ü", 4, Span{3, 6}},
		{"clamped", "m-2", 10, Span{0, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := FindUsageSpan(tt.text, tt.offset)
			assert.Equal(t, tt.expected, span)
		})
	}
}

func TestFindUsageSpanContainsOffset(t *testing.T) {
	text := `<a class="hover:bg-red-500 m-2">x</a>`
	for offset := 0; offset <= len(text); offset++ {
		span := FindUsageSpan(text, offset)
		assert.True(t, span.Contains(offset), "offset %d span %v", offset, span)
		assert.LessOrEqual(t, 0, span.Start)
		assert.LessOrEqual(t, span.End, len(text))
	}
}

func TestFindAllSpans(t *testing.T) {
	text := "  m-2\ttext-red-500\n\"flex\" "
	spans := slices.Collect(FindAllSpans(text))

	var tokens []string
	for _, s := range spans {
		tokens = append(tokens, s.In(text))
	}
	assert.Equal(t, []string{"m-2", "text-red-500", "flex"}, tokens)

	// spans are ordered, disjoint and separated by non-token characters
	for i := 1; i < len(spans); i++ {
		assert.Less(t, spans[i-1].End, spans[i].Start)
		gap := text[spans[i-1].End:spans[i].Start]
		assert.Empty(t, strings.TrimFunc(gap, func(r rune) bool { return !DefaultIsTokenChar(r) }))
	}

	// every range restarts the scan
	assert.Equal(t, spans, slices.Collect(FindAllSpans(text)))
}

func TestFindAllSpansEarlyStop(t *testing.T) {
	var got []Span
	for s := range FindAllSpans("a b c") {
		got = append(got, s)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []Span{{0, 1}, {2, 3}}, got)
}

type digitsOnly struct{}

func (digitsOnly) IsTokenChar(r rune) bool { return r >= '0' && r <= '9' }

func TestScannerCustomGrammar(t *testing.T) {
	s := NewScanner(digitsOnly{})
	assert.Equal(t, Span{2, 5}, s.FindUsageSpan("ab123cd", 3))
	assert.Equal(t, []Span{{1, 3}, {4, 5}}, slices.Collect(s.FindAllSpans("a12b3")))
}
