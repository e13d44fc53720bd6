package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacobolo/classlens"
	"github.com/yacobolo/classlens/internal/ui"
)

// errUnmatched makes the process exit non-zero when a token matched no rule.
var errUnmatched = errors.New("unmatched tokens")

var resolveCmd = &cobra.Command{
	Use:     "resolve <token>...",
	Short:   "Print the CSS generated for utility tokens",
	Args:    cobra.MinimumNArgs(1),
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd, buildSettings(), args)
	},
}

func init() {
	resolveCmd.Flags().String("format", "text", "Output format: text|json")
}

func runResolve(cmd *cobra.Command, s settings, tokens []string) error {
	format, err := ui.ParseOutputFormat(getStringWithFallback("format", "resolve.format", ""))
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

	rules := make([]classlens.CompiledRule, 0, len(tokens))
	unmatched := 0
	reporter := ui.NewReporter(cmd.OutOrStdout(), ui.ShouldUseColors(s.Color), false)
	for _, token := range tokens {
		rule, ok := svc.Resolve(ctx, token)
		if !ok {
			unmatched++
		}
		rules = append(rules, rule)
		if !s.Quiet && format == ui.OutputText {
			reporter.PrintRule(rule, ok)
		}
	}

	if !s.Quiet && format == ui.OutputJSON {
		if err := ui.WriteRulesJSON(cmd.OutOrStdout(), rules); err != nil {
			return err
		}
	}

	if unmatched > 0 {
		return fmt.Errorf("%d of %d: %w", unmatched, len(tokens), errUnmatched)
	}
	return nil
}
