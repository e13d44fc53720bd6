package engine

import "errors"

// ErrMalformedToken is returned by Compile for tokens the grammar cannot parse,
// such as an unbalanced arbitrary value "w-[3px".
var ErrMalformedToken = errors.New("malformed utility token")

// PropertyCategory groups related CSS properties
type PropertyCategory string

// Property categories used as completion detail
const (
	CategoryVisual     PropertyCategory = "Visual"
	CategoryLayout     PropertyCategory = "Layout"
	CategoryTypography PropertyCategory = "Typography"
	CategoryEffects    PropertyCategory = "Effects"
	CategoryInternal   PropertyCategory = "Internal"
)

// Declaration is a single "property: value" pair
type Declaration struct {
	Property string
	Value    string
}

// Class is a plain CSS class discovered in project stylesheets
type Class struct {
	Name       string            // "btn--primary"
	Layer      string            // "components"
	Properties map[string]string // CSS properties
	SourceFile string            // For debugging/conflict resolution
}

// CustomRule is a user-defined utility from the project configuration.
// Exactly one of Name (static) or Match (regexp) is set. Values in CSS may
// reference capture groups of Match as $1..$9.
type CustomRule struct {
	Name  string            `koanf:"name"`
	Match string            `koanf:"match"`
	CSS   map[string]string `koanf:"css"`
}

// Config is the compiled project configuration a Generator is built from.
// A Config is treated as immutable once handed to New.
type Config struct {
	Colors      map[string]string // flattened: "brand" or "brand-500" -> literal
	Breakpoints map[string]string // "sm" -> "640px"
	Shortcuts   map[string]string // "btn" -> "px-4 py-2 rounded"
	Rules       []CustomRule
	Classes     []Class
	Safelist    []string
	MaxItems    int

	// File is the configuration file the config was loaded from, empty for defaults.
	File string
	// Sources lists every file consulted while building the config.
	Sources []string
}

// DefaultMaxItems caps the number of autocomplete suggestions.
const DefaultMaxItems = 100

// DefaultConfig returns the built-in configuration used before any discovery.
func DefaultConfig() *Config {
	return &Config{
		Colors:      map[string]string{},
		Breakpoints: map[string]string{},
		Shortcuts:   map[string]string{},
		MaxItems:    DefaultMaxItems,
	}
}

// Candidate is a single autocomplete suggestion
type Candidate struct {
	Token    string
	Category PropertyCategory
}

// Suggestions is the enumerator result for one cursor position. Start and End
// bound the usage the chosen candidate replaces.
type Suggestions struct {
	Items []Candidate
	Start int
	End   int
}
