package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/yacobolo/classlens/internal/lsp"
	"github.com/yacobolo/classlens/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Run the language server over stdin/stdout",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context(), buildSettings())
	},
}

func addServeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("watch", true, "Reload when the config file or included stylesheets change")
	f.Duration("watch-delay", watch.DefaultDelay, "Quiet period before a change triggers a reload")
	f.Bool("debug", false, "Log protocol messages")
}

func init() {
	addServeFlags(serveCmd)
}

func runServe(ctx context.Context, s settings) error {
	logger, closeLog, err := newLogger(s)
	if err != nil {
		return err
	}
	defer closeLog()

	// glsp logs through commonlog
	verbosity := 0
	if s.Debug {
		verbosity = 2
	}
	if s.LogFile != "" {
		commonlog.Configure(verbosity, &s.LogFile)
	} else {
		commonlog.Configure(verbosity, nil)
	}

	ctx = withLogger(ctx, logger)
	svc, err := newService(s)
	if err != nil {
		return err
	}

	srv := lsp.NewServer(ctx, svc, lsp.Options{
		Version:    version,
		Watch:      s.Watch,
		WatchDelay: s.WatchDelay,
		Debug:      s.Debug,

		FallbackRoot: s.Root,
	})
	logger.Info("language server starting", "version", version, "watch", s.Watch)
	return srv.RunStdio()
}
