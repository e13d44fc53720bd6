package discovery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/yacobolo/classlens/internal/engine"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "CLASSLENS_"

// listKeys are keys whose environment value is a space-separated list.
var listKeys = map[string]bool{
	"css.include": true,
	"safelist":    true,
}

// EnvKey maps CLASSLENS_AUTOCOMPLETE_MAX_ITEMS to autocomplete.max-items:
// the first underscore separates the section, the rest become dashes.
func EnvKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + strings.ReplaceAll(rest, "_", "-")
}

// EnvProvider returns the koanf provider for CLASSLENS_* overrides.
func EnvProvider() *env.Env {
	return env.ProviderWithValue(EnvPrefix, ".", func(name, value string) (string, any) {
		key := EnvKey(name)
		if listKeys[key] {
			return key, strings.Fields(value)
		}
		return key, value
	})
}

// load reads path (may be empty) and environment overrides into a koanf
// instance.
func load(path string) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}
	if err := k.Load(EnvProvider(), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}
	return k, nil
}

// settings is the raw configuration before CSS sources are parsed.
type settings struct {
	cfg      *engine.Config
	includes []string
}

func decode(k *koanf.Koanf) (settings, error) {
	cfg := engine.DefaultConfig()

	flattenColors("", k.Get("theme.colors"), cfg.Colors)
	for name, width := range k.StringMap("theme.breakpoints") {
		cfg.Breakpoints[name] = width
	}
	for name, body := range k.StringMap("shortcuts") {
		cfg.Shortcuts[name] = body
	}
	if k.Exists("rules") {
		if err := k.Unmarshal("rules", &cfg.Rules); err != nil {
			return settings{}, fmt.Errorf("rules: %w", err)
		}
	}
	cfg.Safelist = k.Strings("safelist")
	if k.Exists("autocomplete.max-items") {
		cfg.MaxItems = k.Int("autocomplete.max-items")
	}

	return settings{cfg: cfg, includes: k.Strings("css.include")}, nil
}

// flattenColors turns nested color maps into dashed names. A DEFAULT key
// names the parent itself: {primary: {DEFAULT: x, 500: y}} yields
// primary=x and primary-500=y.
func flattenColors(prefix string, v any, out map[string]string) {
	switch v := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			name := key
			switch {
			case key == "DEFAULT":
				name = prefix
			case prefix != "":
				name = prefix + "-" + key
			}
			flattenColors(name, v[key], out)
		}
	case map[any]any:
		m := make(map[string]any, len(v))
		for key, value := range v {
			m[fmt.Sprint(key)] = value
		}
		flattenColors(prefix, m, out)
	case nil:
	default:
		if prefix != "" {
			out[prefix] = fmt.Sprint(v)
		}
	}
}
