package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/classlens/internal/discovery"
	"github.com/yacobolo/classlens/internal/ui"
	"github.com/yacobolo/classlens/internal/watch"
)

var k = koanf.New(".")

// settings are the resolved CLI settings.
type settings struct {
	Root       string
	ConfigFile string // explicit --config, empty to search from Root
	LogLevel   string
	LogFile    string
	Color      string
	Quiet      bool
	Watch      bool
	WatchDelay time.Duration
	Debug      bool
}

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		root, _ := cmd.Flags().GetString("root")
		found, err := findConfig(cmd.Context(), root)
		if err != nil {
			return err
		}
		configPath = found
	}

	// Load config file and env vars
	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence, only flags that were explicitly set)
	if err := k.Load(posflag.ProviderWithFlag(cmd.Flags(), ".", k, func(f *pflag.Flag) (string, any) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(cmd.Flags(), f)
	}), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// findConfig locates the configuration file for root the way discovery
// does. A root that does not exist has no configuration.
func findConfig(ctx context.Context, root string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if root == "" {
		root = "."
	}
	dir, err := discovery.NormalizeRoot(root)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dir); err != nil {
		return "", nil
	}
	return discovery.FindConfig(ctx, dir)
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return fmt.Errorf("loading config file %s: %w", configPath, err)
			}
		}
	}

	// 2. Environment variables (CLASSLENS_* prefix)
	// CLASSLENS_SERVER_LOG_LEVEL -> server.log-level
	if err := k.Load(discovery.EnvProvider(), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildSettings constructs the CLI settings from koanf state.
func buildSettings() settings {
	return settings{
		Root:       getStringWithFallback("root", "root", "."),
		ConfigFile: k.String("config"),
		LogLevel:   getStringWithFallback("log-level", "server.log-level", "info"),
		LogFile:    getStringWithFallback("log-file", "server.log-file", ""),
		Color:      getStringWithFallback("color", "color", ui.ColorAuto),
		Quiet:      getBoolWithFallback("quiet", "quiet", false),
		Watch:      getBoolWithFallback("watch", "server.watch", true),
		WatchDelay: getDurationWithFallback("watch-delay", "server.watch-delay", watch.DefaultDelay),
		Debug:      getBoolWithFallback("debug", "server.debug", false),
	}
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}

// getDurationWithFallback checks the flag key first, then the config file key, then returns the default.
func getDurationWithFallback(flagKey, configKey string, defaultVal time.Duration) time.Duration {
	if k.Exists(flagKey) {
		return k.Duration(flagKey)
	}
	if k.Exists(configKey) {
		return k.Duration(configKey)
	}
	return defaultVal
}
