package ui

import (
	"encoding/json"
	"io"
	"time"

	"github.com/yacobolo/classlens"
)

// JSONColors is the JSON export of a colors run.
type JSONColors struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Summary   JSONSummary `json:"summary"`
	Colors    []JSONColor `json:"colors"`
}

// JSONSummary contains run totals.
type JSONSummary struct {
	Colors       int `json:"colors"`
	FilesScanned int `json:"files_scanned"`
}

// JSONColor is one located color decoration.
type JSONColor struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Token  string `json:"token"`
	Color  string `json:"color"`
	Source string `json:"source,omitempty"`
}

// JSONRule is the JSON export of a resolved token.
type JSONRule struct {
	Token   string `json:"token"`
	CSS     string `json:"css"`
	Matched bool   `json:"matched"`
}

// JSONCompletion is the JSON export of one completion.
type JSONCompletion struct {
	Label   string `json:"label"`
	NewText string `json:"new_text"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Detail  string `json:"detail,omitempty"`
}

// WriteColorsJSON writes findings as JSON.
func WriteColorsJSON(w io.Writer, findings []ColorFinding, filesScanned int) error {
	return writeJSON(w, buildColorsJSON(findings, filesScanned, time.Now()))
}

func buildColorsJSON(findings []ColorFinding, filesScanned int, now time.Time) JSONColors {
	colors := make([]JSONColor, len(findings))
	for i, f := range findings {
		colors[i] = JSONColor{
			File:   f.File,
			Line:   f.Line,
			Column: f.Column,
			Token:  f.Token,
			Color:  f.Hex,
			Source: f.SourceLine,
		}
	}
	return JSONColors{
		Version:   "1.0",
		Timestamp: now.Format(time.RFC3339),
		Summary: JSONSummary{
			Colors:       len(findings),
			FilesScanned: filesScanned,
		},
		Colors: colors,
	}
}

// WriteRulesJSON writes resolved tokens as JSON.
func WriteRulesJSON(w io.Writer, rules []classlens.CompiledRule) error {
	out := make([]JSONRule, len(rules))
	for i, r := range rules {
		out[i] = JSONRule{Token: r.Token, CSS: r.CSS, Matched: r.CSS != ""}
	}
	return writeJSON(w, out)
}

// WriteCompletionsJSON writes completions as JSON.
func WriteCompletionsJSON(w io.Writer, completions []classlens.Completion) error {
	out := make([]JSONCompletion, len(completions))
	for i, c := range completions {
		out[i] = JSONCompletion{
			Label:   c.Label,
			NewText: c.NewText,
			Start:   c.Span.Start,
			End:     c.Span.End,
			Detail:  c.Detail,
		}
	}
	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
