package classlens

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// separators are the non-space characters that end a token in the default
// grammar.
const separators = "\"'`<>{};=,"

// DefaultIsTokenChar is the token grammar used when the compiler does not
// provide one.
func DefaultIsTokenChar(r rune) bool {
	return !unicode.IsSpace(r) && !strings.ContainsRune(separators, r) && r != utf8.RuneError
}

// Scanner locates token boundaries in document text.
type Scanner struct {
	isTokenChar func(rune) bool
}

// NewScanner returns a Scanner using the grammar of g, or the default
// grammar when g is nil.
func NewScanner(g TokenGrammar) Scanner {
	if g == nil {
		return Scanner{isTokenChar: DefaultIsTokenChar}
	}
	return Scanner{isTokenChar: g.IsTokenChar}
}

// scannerFor returns the scanner matching compiler's grammar.
func scannerFor(compiler Compiler) Scanner {
	if g, ok := compiler.(TokenGrammar); ok {
		return NewScanner(g)
	}
	return NewScanner(nil)
}

// FindUsageSpan returns the maximal token span containing offset. It returns
// the empty span [offset, offset) when neither neighbour is a token
// character. Offsets outside the text are clamped.
func (s Scanner) FindUsageSpan(text string, offset int) Span {
	offset = max(0, min(offset, len(text)))

	start := offset
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !s.isTokenChar(r) {
			break
		}
		start -= size
	}

	end := offset
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !s.isTokenChar(r) {
			break
		}
		end += size
	}

	return Span{Start: start, End: end}
}

// FindAllSpans yields the maximal token spans of text from left to right.
// Every range over the returned sequence scans text afresh.
func (s Scanner) FindAllSpans(text string) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		start := -1
		for i, r := range text {
			if s.isTokenChar(r) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				if !yield(Span{Start: start, End: i}) {
					return
				}
				start = -1
			}
		}
		if start >= 0 {
			yield(Span{Start: start, End: len(text)})
		}
	}
}

// FindUsageSpan is Scanner.FindUsageSpan with the default grammar.
func FindUsageSpan(text string, offset int) Span {
	return NewScanner(nil).FindUsageSpan(text, offset)
}

// FindAllSpans is Scanner.FindAllSpans with the default grammar.
func FindAllSpans(text string) iter.Seq[Span] {
	return NewScanner(nil).FindAllSpans(text)
}
