package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/yacobolo/classlens"
	"github.com/yacobolo/classlens/internal/discovery"
	"github.com/yacobolo/classlens/internal/logging"
)

// newLogger builds the logger described by s. The returned closer releases
// the log file, if any.
func newLogger(s settings) (*log.Logger, func() error, error) {
	if s.LogFile == "" {
		return logging.New(s.LogLevel), func() error { return nil }, nil
	}

	f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.NewWithWriter(f, s.LogLevel), f.Close, nil
}

// withLogger installs logger as the default and attaches it to ctx.
func withLogger(ctx context.Context, logger *log.Logger) context.Context {
	logging.SetDefault(logger)
	return logging.WithLogger(ctx, logger)
}

func newDiscoverer(s settings) classlens.Discoverer {
	if s.ConfigFile != "" {
		return classlens.DiscovererFunc(discovery.WithConfigFile(s.ConfigFile))
	}
	return classlens.DiscovererFunc(discovery.Discover)
}

// newService returns a service serving the built-in defaults until the
// project configuration is reloaded.
func newService(s settings) (*classlens.Service, error) {
	m, err := classlens.NewManager(newDiscoverer(s))
	if err != nil {
		return nil, err
	}
	return classlens.NewService(m), nil
}

// loadService returns a service configured for the project at s.Root.
func loadService(ctx context.Context, s settings) (*classlens.Service, error) {
	svc, err := newService(s)
	if err != nil {
		return nil, err
	}
	if _, err := svc.Manager().Reload(ctx, s.Root); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return svc, nil
}

// readInput reads path, or stdin when path is "-".
func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
