package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yacobolo/classlens/internal/discovery"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default classlens.yaml config file",
	Long:  `Create a classlens.yaml configuration file in the --root directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")
		root, _ := cmd.Flags().GetString("root")

		dir, err := discovery.NormalizeRoot(root)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, discovery.ConfigFiles[0])

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

const defaultConfig = `# classlens configuration
# Docs: https://github.com/yacobolo/classlens

# Extra theme entries, merged over the built-in palette
theme:
  colors:
    brand:
      DEFAULT: "#4f46e5"
      light: "#818cf8"
  breakpoints:
    xs: 480px

# name -> space-separated utilities
shortcuts:
  btn: px-4 py-2 rounded font-semibold

# Custom rules: exact name or a regular expression with $1.. captures
rules:
  - name: card-shadow
    css:
      box-shadow: 0 1px 3px rgb(0 0 0 / 0.1)
  - match: ^gap-x-(\d+)px$
    css:
      column-gap: $1px

# Tokens always offered by completion
safelist: []

# Stylesheets whose class selectors become completions
css:
  include: []
    # - "styles/**/*.css"

autocomplete:
  max-items: 100          # suggestions per request

# Language server settings
server:
  log-level: info         # debug | info | warn | error
  watch: true
  watch-delay: 200ms
  debug: false
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
