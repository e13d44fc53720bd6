package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/yacobolo/classlens"
)

// Reporter writes human-readable results.
type Reporter struct {
	w          io.Writer
	useColors  bool
	printLines bool
}

// NewReporter creates a reporter. printLines adds the source line and a
// caret under every finding.
func NewReporter(w io.Writer, useColors, printLines bool) *Reporter {
	return &Reporter{
		w:          w,
		useColors:  useColors,
		printLines: printLines,
	}
}

// PrintColors outputs findings in golangci-lint format, ordered by file,
// line and column.
func (r *Reporter) PrintColors(findings []ColorFinding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].File != findings[j].File {
			return findings[i].File < findings[j].File
		}
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].Column < findings[j].Column
	})

	for _, f := range findings {
		r.printColor(f)
	}
}

func (r *Reporter) printColor(f ColorFinding) {
	location := fmt.Sprintf("%s:%d:%d:", f.File, f.Line, f.Column)
	swatch := Swatch(f.Hex, r.useColors)
	if swatch != "" {
		swatch = " " + swatch
	}

	fmt.Fprintf(r.w, "%s %s %s%s\n",
		RenderStyle(StyleCyan, location, r.useColors),
		RenderStyle(StyleGreen, f.Token, r.useColors),
		f.Hex,
		swatch)

	if r.printLines && f.SourceLine != "" {
		fmt.Fprintf(r.w, "\t%s\n", f.SourceLine)
		caret := buildCaretIndicator(f.SourceLine, f.Column)
		fmt.Fprintf(r.w, "\t%s\n", RenderStyle(StyleYellow, caret, r.useColors))
	}
}

// buildCaretIndicator creates a "^" aligned with the rune column, keeping
// the tabs of the source line so the caret lines up.
func buildCaretIndicator(sourceLine string, column int) string {
	if column <= 0 {
		return "^"
	}

	var padding strings.Builder
	n := 0
	for _, ch := range sourceLine {
		if n >= column-1 {
			break
		}
		if ch == '\t' {
			padding.WriteRune('\t')
		} else {
			padding.WriteRune(' ')
		}
		n++
	}
	return padding.String() + "^"
}

// PrintColorSummary outputs the number of findings and files.
func (r *Reporter) PrintColorSummary(findings []ColorFinding, filesScanned int) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintf(r.w, "%s in %s\n",
		pluralizeCount(len(findings), "color", "colors"),
		pluralizeCount(filesScanned, "file", "files"))
}

// PrintRule outputs the CSS of a resolved token, or a note that it matched
// nothing.
func (r *Reporter) PrintRule(rule classlens.CompiledRule, ok bool) {
	if !ok {
		fmt.Fprintf(r.w, "%s %s\n",
			RenderStyle(StyleRed, rule.Token+":", r.useColors),
			RenderStyle(StyleGray, "no matching rule", r.useColors))
		return
	}
	fmt.Fprintln(r.w, rule.CSS)
}

// PrintCompletions outputs one completion per line with its category and
// the span it replaces.
func (r *Reporter) PrintCompletions(completions []classlens.Completion) {
	if len(completions) == 0 {
		fmt.Fprintln(r.w, RenderStyle(StyleGray, "no completions", r.useColors))
		return
	}

	width := 0
	for _, c := range completions {
		width = max(width, len(c.Label))
	}
	for _, c := range completions {
		detail := c.Detail
		if detail == "" {
			detail = "-"
		}
		fmt.Fprintf(r.w, "%s %s %s\n",
			RenderStyle(StyleGreen, fmt.Sprintf("%-*s", width, c.Label), r.useColors),
			RenderStyle(StyleGray, fmt.Sprintf("%-10s", detail), r.useColors),
			c.Span)
	}
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
