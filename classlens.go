// Package classlens turns document text and a cursor offset into
// utility-class completions, CSS previews and color swatches. It owns the
// request pipeline and the reloadable configuration the pipeline runs
// against; the utility grammar itself lives behind the Compiler and
// Enumerator interfaces.
package classlens

import (
	"context"
	"errors"

	"github.com/yacobolo/classlens/internal/engine"
)

var (
	// ErrOffsetOutOfRange is returned when an offset lies outside the text.
	ErrOffsetOutOfRange = errors.New("offset out of range")
	// ErrDiscovery marks reload failures caused by configuration discovery.
	ErrDiscovery = errors.New("configuration discovery failed")
	// ErrBuild marks reload failures caused by building the generator.
	ErrBuild = errors.New("generator build failed")
	// ErrReloadSuperseded is returned by a reload whose result was discarded
	// because a reload started after it had already published.
	ErrReloadSuperseded = errors.New("reload superseded")
)

// Configuration types shared with the generator, exported so Discoverer,
// Builder and Enumerator can be implemented outside this module.
type (
	Config           = engine.Config
	CustomRule       = engine.CustomRule
	Class            = engine.Class
	Candidate        = engine.Candidate
	PropertyCategory = engine.PropertyCategory
)

// Completion categories reported by the built-in generator.
const (
	CategoryVisual     = engine.CategoryVisual
	CategoryLayout     = engine.CategoryLayout
	CategoryTypography = engine.CategoryTypography
	CategoryEffects    = engine.CategoryEffects
	CategoryInternal   = engine.CategoryInternal
)

// DefaultConfig returns the built-in configuration used before any
// discovery succeeds.
func DefaultConfig() *Config {
	return engine.DefaultConfig()
}

// Compiler turns a single token into CSS. Unknown tokens yield "" and a nil
// error.
type Compiler interface {
	Compile(ctx context.Context, token string) (string, error)
}

// Enumerator lists completion candidates for the token under offset.
type Enumerator interface {
	Enumerate(ctx context.Context, text string, offset int) (Enumeration, error)
}

// Enumeration is an enumerator result: ranked candidates and the span a
// chosen candidate replaces.
type Enumeration struct {
	Tokens []Candidate
	Span   Span
}

// TokenGrammar is implemented by compilers that define which characters
// belong to a token.
type TokenGrammar interface {
	IsTokenChar(r rune) bool
}

// Recolorer is implemented by compilers that can rewrite the color of a
// color token to a literal, such as "bg-red-500" to "bg-[#00ff00]".
type Recolorer interface {
	Recolor(token, literal string) (string, bool)
}

// Discoverer loads the project configuration below rootDir.
type Discoverer interface {
	Discover(ctx context.Context, rootDir string) (*Config, error)
}

// DiscovererFunc adapts a function to the Discoverer interface.
type DiscovererFunc func(ctx context.Context, rootDir string) (*Config, error)

// Discover calls f(ctx, rootDir).
func (f DiscovererFunc) Discover(ctx context.Context, rootDir string) (*Config, error) {
	return f(ctx, rootDir)
}

// CompiledRule is the CSS generated for a token. CSS is empty when the
// token matches no rule.
type CompiledRule struct {
	Token string
	CSS   string
	Span  Span // where the token was found, set by HoverPreview
}
