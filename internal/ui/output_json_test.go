package ui

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/classlens"
)

func TestBuildColorsJSON(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	out := buildColorsJSON([]ColorFinding{
		{File: "a.html", Line: 1, Column: 2, Token: "bg-white", Hex: "#ffffff", SourceLine: " bg-white"},
	}, 3, now)

	assert.Equal(t, "1.0", out.Version)
	assert.Equal(t, "2026-01-02T03:04:05Z", out.Timestamp)
	assert.Equal(t, JSONSummary{Colors: 1, FilesScanned: 3}, out.Summary)
	assert.Equal(t, []JSONColor{{File: "a.html", Line: 1, Column: 2, Token: "bg-white", Color: "#ffffff", Source: " bg-white"}}, out.Colors)
}

func TestWriteColorsJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteColorsJSON(&buf, nil, 0))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	// an empty run still reports an array, not null
	assert.Equal(t, []any{}, decoded["colors"])
}

func TestWriteRulesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRulesJSON(&buf, []classlens.CompiledRule{
		{Token: "m-2", CSS: ".m-2{margin:0.5rem;}"},
		{Token: "nope"},
	}))

	var decoded []JSONRule
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []JSONRule{
		{Token: "m-2", CSS: ".m-2{margin:0.5rem;}", Matched: true},
		{Token: "nope"},
	}, decoded)
}

func TestWriteCompletionsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCompletionsJSON(&buf, []classlens.Completion{
		{Label: "m-0", NewText: "m-0", Span: classlens.Span{Start: 4, End: 6}, Detail: "Layout"},
	}))

	assert.JSONEq(t, `[{"label":"m-0","new_text":"m-0","start":4,"end":6,"detail":"Layout"}]`, buf.String())
}

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{"": OutputText, "text": OutputText, "json": OutputJSON} {
		got, err := ParseOutputFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseOutputFormat("xml")
	assert.Error(t, err)
}
