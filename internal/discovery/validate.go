package discovery

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mazznoer/csscolorparser"

	"github.com/yacobolo/classlens/internal/engine"
)

// ValidationError describes one invalid configuration value.
type ValidationError struct {
	FilePath string
	Field    string
	Message  string
}

func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

var (
	lengthPattern = regexp.MustCompile(`^\d+(\.\d+)?(px|em|rem)$`)
	namePattern   = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// colorKeywords are accepted theme values that carry no channels.
var colorKeywords = map[string]bool{
	"currentcolor": true,
	"inherit":      true,
}

// validate checks cfg and returns the first problem found, reporting fields
// in a stable order.
func validate(path string, cfg *engine.Config) error {
	fail := func(field, format string, args ...any) error {
		return &ValidationError{FilePath: path, Field: field, Message: fmt.Sprintf(format, args...)}
	}

	for _, name := range sortedKeys(cfg.Colors) {
		value := cfg.Colors[name]
		if !namePattern.MatchString(name) {
			return fail("theme.colors."+name, "invalid color name")
		}
		if colorKeywords[strings.ToLower(value)] {
			continue
		}
		if _, err := csscolorparser.Parse(value); err != nil {
			return fail("theme.colors."+name, "invalid color %q", value)
		}
	}

	for _, name := range sortedKeys(cfg.Breakpoints) {
		if !namePattern.MatchString(name) {
			return fail("theme.breakpoints."+name, "invalid breakpoint name")
		}
		if !lengthPattern.MatchString(cfg.Breakpoints[name]) {
			return fail("theme.breakpoints."+name, "invalid width %q", cfg.Breakpoints[name])
		}
	}

	for _, name := range sortedKeys(cfg.Shortcuts) {
		if strings.TrimSpace(cfg.Shortcuts[name]) == "" {
			return fail("shortcuts."+name, "empty shortcut")
		}
	}

	for i, r := range cfg.Rules {
		field := fmt.Sprintf("rules[%d]", i)
		switch {
		case r.Name == "" && r.Match == "":
			return fail(field, "one of name or match is required")
		case r.Name != "" && r.Match != "":
			return fail(field, "name and match are mutually exclusive")
		case len(r.CSS) == 0:
			return fail(field+".css", "no declarations")
		}
		if r.Match != "" {
			if _, err := regexp.Compile(r.Match); err != nil {
				return fail(field+".match", "invalid pattern: %v", err)
			}
		}
	}

	if cfg.MaxItems < 0 {
		return fail("autocomplete.max-items", "must not be negative, got %d", cfg.MaxItems)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
