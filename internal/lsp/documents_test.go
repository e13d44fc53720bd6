package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func rangeAt(startLine, startChar, endLine, endChar uint32) *protocol.Range {
	return &protocol.Range{
		Start: protocol.Position{Line: startLine, Character: startChar},
		End:   protocol.Position{Line: endLine, Character: endChar},
	}
}

func TestDocumentStoreChange(t *testing.T) {
	const uri = "file:///tmp/index.html"

	tests := []struct {
		name     string
		initial  string
		changes  []any
		expected string
	}{
		{
			name:     "insert",
			initial:  `<div class="p-4">`,
			changes:  []any{protocol.TextDocumentContentChangeEvent{Range: rangeAt(0, 15, 0, 15), Text: " m-2"}},
			expected: `<div class="p-4 m-2">`,
		},
		{
			name:     "replace across lines",
			initial:  "a\nb\nc",
			changes:  []any{protocol.TextDocumentContentChangeEvent{Range: rangeAt(0, 1, 2, 0), Text: "-"}},
			expected: "a-c",
		},
		{
			name:    "sequential edits see earlier ones",
			initial: "bg",
			changes: []any{
				protocol.TextDocumentContentChangeEvent{Range: rangeAt(0, 2, 0, 2), Text: "-red"},
				protocol.TextDocumentContentChangeEvent{Range: rangeAt(0, 6, 0, 6), Text: "-500"},
			},
			expected: "bg-red-500",
		},
		{
			name:     "utf-16 columns",
			initial:  "😀 p-4",
			changes:  []any{protocol.TextDocumentContentChangeEvent{Range: rangeAt(0, 3, 0, 6), Text: "m-2"}},
			expected: "😀 m-2",
		},
		{
			name:     "whole document",
			initial:  "old",
			changes:  []any{protocol.TextDocumentContentChangeEventWhole{Text: "new"}},
			expected: "new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newDocumentStore()
			store.open(uri, 1, tt.initial)

			require.NoError(t, store.change(uri, 2, tt.changes))

			doc, err := store.get(uri)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, doc.text)
			assert.Equal(t, protocol.Integer(2), doc.version)
		})
	}
}

func TestDocumentStoreKeepsLoadedVersion(t *testing.T) {
	const uri = "file:///tmp/a.html"
	store := newDocumentStore()
	store.open(uri, 1, "p-4")

	before, err := store.get(uri)
	require.NoError(t, err)
	require.NoError(t, store.change(uri, 2, []any{protocol.TextDocumentContentChangeEventWhole{Text: "m-2"}}))

	assert.Equal(t, "p-4", before.text)
}

func TestDocumentStoreNotOpen(t *testing.T) {
	store := newDocumentStore()

	_, err := store.get("file:///missing")
	assert.ErrorIs(t, err, ErrDocumentNotOpen)

	err = store.change("file:///missing", 1, nil)
	assert.ErrorIs(t, err, ErrDocumentNotOpen)

	store.open("file:///a", 1, "")
	assert.Equal(t, 1, store.len())
	store.close("file:///a")
	assert.Equal(t, 0, store.len())
}

func TestDocumentStoreUnsupportedChange(t *testing.T) {
	store := newDocumentStore()
	store.open("file:///a", 1, "x")

	err := store.change("file:///a", 2, []any{"bogus"})
	assert.Error(t, err)
}
