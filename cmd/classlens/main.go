// Package main provides the classlens CLI: a language server for utility CSS
// classes plus commands to query the same engine from a shell.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yacobolo/classlens/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// unmatched tokens were already reported
		if !errors.Is(err, errUnmatched) {
			useColors := ui.ShouldUseColors(ui.ColorAuto)
			fmt.Fprintln(os.Stderr, ui.RenderStyle(ui.StyleRed, "Error: "+err.Error(), useColors))
		}
		stop()
		os.Exit(1)
	}
}
