package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/yacobolo/classlens/internal/logging"
	"github.com/yacobolo/classlens/internal/ui"
)

var colorsCmd = &cobra.Command{
	Use:   "colors <file|glob>...",
	Short: "Report utility tokens that render a solid color",
	Long: `Report every token in the given files that compiles to a single solid color,
in file:line:column format with swatches. Arguments may be doublestar globs
such as "templates/**/*.html".`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runColors(cmd, buildSettings(), args)
	},
}

func init() {
	f := colorsCmd.Flags()
	f.String("format", "text", "Output format: text|json")
	f.Bool("print-lines", true, "Show source lines with a caret under each color")
}

func runColors(cmd *cobra.Command, s settings, patterns []string) error {
	format, err := ui.ParseOutputFormat(getStringWithFallback("format", "colors.format", ""))
	if err != nil {
		return err
	}

	files, err := expandFiles(patterns)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(s)
	if err != nil {
		return err
	}
	defer closeLog()
	ctx := withLogger(cmd.Context(), logger)

	svc, err := loadService(ctx, s)
	if err != nil {
		return err
	}

	var findings []ui.ColorFinding
	for _, file := range files {
		text, err := readInput(cmd.InOrStdin(), file)
		if err != nil {
			return err
		}
		decorations, err := svc.ColorsIn(ctx, text)
		if err != nil {
			return err
		}
		logging.FromContext(ctx).Debug("colors scanned", logging.FieldPath, file, logging.FieldCount, len(decorations))
		findings = append(findings, ui.NewColorFindings(file, text, decorations)...)
	}

	if s.Quiet {
		return nil
	}
	if format == ui.OutputJSON {
		return ui.WriteColorsJSON(cmd.OutOrStdout(), findings, len(files))
	}

	printLines := getBoolWithFallback("print-lines", "colors.print-lines", true)
	reporter := ui.NewReporter(cmd.OutOrStdout(), ui.ShouldUseColors(s.Color), printLines)
	reporter.PrintColors(findings)
	reporter.PrintColorSummary(findings, len(files))
	return nil
}

// expandFiles expands glob patterns and keeps plain paths as given. The
// result is sorted and free of duplicates.
func expandFiles(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches := []string{pattern}
		if pattern != "-" && hasMeta(pattern) {
			var err error
			matches, err = doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("pattern %q matched no files", pattern)
			}
		}
		for _, m := range matches {
			if m != "-" {
				m = filepath.Clean(m)
			}
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func hasMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
