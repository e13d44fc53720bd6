package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/yacobolo/classlens/internal/ui"
)

var completeCmd = &cobra.Command{
	Use:   "complete <file> <offset|line:column>",
	Short: "List completions for the token at a position",
	Long: `List completions for the token at a position in a file ("-" reads stdin).
The position is a byte offset, or a 1-based line and column in runes.`,
	Args:    cobra.ExactArgs(2),
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runComplete(cmd, buildSettings(), args[0], args[1])
	},
}

func init() {
	f := completeCmd.Flags()
	f.String("format", "text", "Output format: text|json")
	f.Int("limit", 0, "Max completions to print (0=all)")
}

func runComplete(cmd *cobra.Command, s settings, path, position string) error {
	format, err := ui.ParseOutputFormat(getStringWithFallback("format", "complete.format", ""))
	if err != nil {
		return err
	}

	text, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}
	offset, err := parsePosition(text, position)
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

	completions, err := svc.Complete(ctx, text, offset)
	if err != nil {
		return err
	}
	if limit := getIntWithFallback("limit", "complete.limit", 0); limit > 0 && len(completions) > limit {
		completions = completions[:limit]
	}

	if s.Quiet {
		return nil
	}
	if format == ui.OutputJSON {
		return ui.WriteCompletionsJSON(cmd.OutOrStdout(), completions)
	}
	ui.NewReporter(cmd.OutOrStdout(), ui.ShouldUseColors(s.Color), false).PrintCompletions(completions)
	return nil
}

// parsePosition converts a byte offset or a 1-based "line:column" into a
// byte offset of text.
func parsePosition(text, position string) (int, error) {
	lineStr, colStr, ok := strings.Cut(position, ":")
	if !ok {
		offset, err := strconv.Atoi(position)
		if err != nil || offset < 0 || offset > len(text) {
			return 0, fmt.Errorf("invalid offset %q for %d bytes", position, len(text))
		}
		return offset, nil
	}

	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return 0, fmt.Errorf("invalid line in %q", position)
	}
	column, err := strconv.Atoi(colStr)
	if err != nil || column < 1 {
		return 0, fmt.Errorf("invalid column in %q", position)
	}

	start := 0
	for i := 1; i < line; i++ {
		next := strings.IndexByte(text[start:], '\n')
		if next < 0 {
			return 0, fmt.Errorf("line %d past end of input", line)
		}
		start += next + 1
	}

	offset := start
	for i := 1; i < column; i++ {
		if offset >= len(text) || text[offset] == '\n' {
			return 0, fmt.Errorf("column %d past end of line %d", column, line)
		}
		_, size := utf8.DecodeRuneInString(text[offset:])
		offset += size
	}
	return offset, nil
}
