// Package discovery locates and loads a project's classlens configuration:
// the YAML file, environment overrides and the stylesheets it includes.
package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yacobolo/classlens/internal/engine"
	"github.com/yacobolo/classlens/internal/logging"
)

// Discover builds the configuration for the project at rootDir, which may
// be a path or a file:// URI. It returns the built-in defaults when no
// configuration file exists, and fails when rootDir is not a directory or
// the configuration is invalid.
func Discover(ctx context.Context, rootDir string) (*engine.Config, error) {
	return discover(ctx, rootDir, "")
}

// WithConfigFile returns a discover function that reads configPath instead
// of searching for a configuration file below the root.
func WithConfigFile(configPath string) func(ctx context.Context, rootDir string) (*engine.Config, error) {
	return func(ctx context.Context, rootDir string) (*engine.Config, error) {
		return discover(ctx, rootDir, configPath)
	}
}

func discover(ctx context.Context, rootDir, configPath string) (*engine.Config, error) {
	root, err := NormalizeRoot(rootDir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root directory %s: not a directory", root)
	}

	path := configPath
	if path == "" {
		path, err = FindConfig(ctx, root)
		if err != nil {
			return nil, err
		}
	} else {
		if path, err = filepath.Abs(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if !fileExists(path) {
			return nil, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
		}
	}

	k, err := load(path)
	if err != nil {
		return nil, err
	}
	s, err := decode(k)
	if err != nil {
		return nil, &ValidationError{FilePath: path, Message: err.Error()}
	}
	cfg := s.cfg
	cfg.File = path
	if path != "" {
		cfg.Sources = append(cfg.Sources, path)
	}

	if err := validate(path, cfg); err != nil {
		return nil, err
	}

	if len(s.includes) > 0 {
		// includes resolve against the directory holding the config file
		base := root
		if path != "" {
			base = filepath.Dir(path)
		}
		if err := loadStylesheets(ctx, base, s.includes, cfg); err != nil {
			return nil, err
		}
	}

	logging.FromContext(ctx).Debug("configuration discovered",
		logging.FieldRoot, root,
		logging.FieldPath, path,
		logging.FieldSources, len(cfg.Sources),
		logging.FieldCount, len(cfg.Classes))
	return cfg, nil
}

func loadStylesheets(ctx context.Context, base string, includes []string, cfg *engine.Config) error {
	gi, ignorePath := loadGitIgnore(base)
	if ignorePath != "" {
		cfg.Sources = append(cfg.Sources, ignorePath)
	}

	files, stats, err := expandIncludes(base, includes, gi)
	if err != nil {
		return err
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}
		classes, err := parseFile(file)
		if err != nil {
			return fmt.Errorf("stylesheet %s: %w", file, err)
		}
		cfg.Classes = append(cfg.Classes, classes...)
		cfg.Sources = append(cfg.Sources, file)
	}

	logging.FromContext(ctx).Debug("stylesheets loaded",
		"discovered", stats.FilesDiscovered,
		"parsed", stats.FilesParsed,
		"skipped", stats.FilesSkipped)
	return nil
}
