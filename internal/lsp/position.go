package lsp

import (
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yacobolo/classlens"
)

// positionConverter maps LSP positions (line, UTF-16 column) to byte
// offsets and back for one version of a document.
type positionConverter struct {
	content    string
	lineStarts []int
}

func newPositionConverter(content string) *positionConverter {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &positionConverter{content: content, lineStarts: starts}
}

// lineEnd returns the byte offset of the end of line, excluding the line
// terminator.
func (pc *positionConverter) lineEnd(line int) int {
	if line+1 < len(pc.lineStarts) {
		end := pc.lineStarts[line+1] - 1
		if end > pc.lineStarts[line] && pc.content[end-1] == '\r' {
			end--
		}
		return end
	}
	return len(pc.content)
}

// offset converts pos to a byte offset. Positions past the end of a line
// clamp to the line end; lines past the end clamp to the document end.
func (pc *positionConverter) offset(pos protocol.Position) int {
	line := int(pos.Line)
	if line >= len(pc.lineStarts) {
		return len(pc.content)
	}

	off, end := pc.lineStarts[line], pc.lineEnd(line)
	units := int(pos.Character)
	for off < end && units > 0 {
		r, size := utf8.DecodeRuneInString(pc.content[off:end])
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if n > units {
			// inside a surrogate pair
			break
		}
		units -= n
		off += size
	}
	return off
}

// position converts a byte offset to an LSP position.
func (pc *positionConverter) position(offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(pc.content) {
		offset = len(pc.content)
	}

	line := 0
	lo, hi := 0, len(pc.lineStarts)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if pc.lineStarts[mid] <= offset {
			line, lo = mid, mid+1
		} else {
			hi = mid - 1
		}
	}

	units := 0
	for _, r := range pc.content[pc.lineStarts[line]:offset] {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		units += n
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(units)}
}

func (pc *positionConverter) rangeOf(span classlens.Span) protocol.Range {
	return protocol.Range{Start: pc.position(span.Start), End: pc.position(span.End)}
}

func (pc *positionConverter) spanOf(r protocol.Range) classlens.Span {
	start, end := pc.offset(r.Start), pc.offset(r.End)
	if end < start {
		start, end = end, start
	}
	return classlens.Span{Start: start, End: end}
}
