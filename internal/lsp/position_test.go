package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yacobolo/classlens"
)

func TestPositionConverter(t *testing.T) {
	// "é" is two bytes and one UTF-16 unit, "😀" four bytes and two units
	content := "ab\ncé d\r\n😀x\n"
	pc := newPositionConverter(content)

	tests := []struct {
		name   string
		pos    protocol.Position
		offset int
	}{
		{"document start", protocol.Position{Line: 0, Character: 0}, 0},
		{"first line end", protocol.Position{Line: 0, Character: 2}, 2},
		{"after multibyte rune", protocol.Position{Line: 1, Character: 2}, 6},
		{"before carriage return", protocol.Position{Line: 1, Character: 4}, 8},
		{"after surrogate pair", protocol.Position{Line: 2, Character: 2}, 14},
		{"last line", protocol.Position{Line: 3, Character: 0}, len(content)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.offset, pc.offset(tt.pos))
			assert.Equal(t, tt.pos, pc.position(tt.offset))
		})
	}
}

func TestPositionConverterClamps(t *testing.T) {
	pc := newPositionConverter("ab\ncd")

	assert.Equal(t, 2, pc.offset(protocol.Position{Line: 0, Character: 40}))
	assert.Equal(t, 5, pc.offset(protocol.Position{Line: 9, Character: 0}))
	// a column inside a surrogate pair stops before the pair
	assert.Equal(t, 0, newPositionConverter("😀").offset(protocol.Position{Line: 0, Character: 1}))

	assert.Equal(t, protocol.Position{Line: 0, Character: 0}, pc.position(-3))
	assert.Equal(t, protocol.Position{Line: 1, Character: 2}, pc.position(99))
}

func TestPositionConverterSpans(t *testing.T) {
	pc := newPositionConverter("x\nbg-red-500")

	rng := pc.rangeOf(classlens.Span{Start: 2, End: 12})
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 1, Character: 0},
		End:   protocol.Position{Line: 1, Character: 10},
	}, rng)
	assert.Equal(t, classlens.Span{Start: 2, End: 12}, pc.spanOf(rng))

	reversed := protocol.Range{Start: rng.End, End: rng.Start}
	assert.Equal(t, classlens.Span{Start: 2, End: 12}, pc.spanOf(reversed))
}
