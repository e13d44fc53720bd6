package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "classlens",
	Short: "Language server for utility CSS classes",
	Long: `Completion, CSS hover previews and color swatches for utility classes
in any editor that speaks the Language Server Protocol.

Run without a subcommand to serve over stdin/stdout.`,
	// Default behavior: serve when no subcommand is given.
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context(), buildSettings())
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	f := rootCmd.PersistentFlags()
	f.String("root", ".", "Project root directory")
	f.String("config", "", "Config file path (default: searched from --root)")
	f.String("log-level", "info", "Log level: debug|info|warn|error")
	f.String("log-file", "", "Write logs to this file instead of stderr")
	f.String("color", "auto", "Color output: auto|always|never")
	f.Bool("quiet", false, "Suppress all output (exit code only)")

	addServeFlags(rootCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(colorsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
