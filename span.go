package classlens

import "fmt"

// Span is a half-open byte range [Start, End) into a document.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether s covers no bytes.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains reports whether offset lies within s, counting the end position
// so that a cursor directly after a token is inside it.
func (s Span) Contains(offset int) bool {
	return s.Start <= offset && offset <= s.End
}

// In returns the text covered by s.
func (s Span) In(text string) string {
	return text[s.Start:s.End]
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}
