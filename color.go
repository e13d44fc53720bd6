package classlens

import (
	"fmt"
	"strings"

	"github.com/mazznoer/csscolorparser"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Color is a solid color with channels in [0,1] and the CSS literal it was
// parsed from.
type Color struct {
	R, G, B, A float64
	Literal    string
}

// String renders c as #rrggbb, or #rrggbbaa when it is translucent.
func (c Color) String() string {
	return csscolorparser.Color{R: c.R, G: c.G, B: c.B, A: c.A}.HexString()
}

// key identifies a color by its 8-digit hex form.
func (c Color) key() string {
	r, g, b, a := csscolorparser.Color{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA255()
	return fmt.Sprintf("%02x%02x%02x%02x", r, g, b, a)
}

// colorProperties are the declarations whose value is a single color.
var colorProperties = map[string]bool{
	"color":                 true,
	"background":            true,
	"background-color":      true,
	"border-color":          true,
	"border-top-color":      true,
	"border-right-color":    true,
	"border-bottom-color":   true,
	"border-left-color":     true,
	"outline-color":         true,
	"text-decoration-color": true,
	"fill":                  true,
	"stroke":                true,
	"caret-color":           true,
	"accent-color":          true,
	"column-rule-color":     true,
}

// nonLiteral are value fragments that disqualify a declaration from swatches.
var nonLiteral = []string{"var(", "gradient(", "url(", "currentcolor", "env(", "calc("}

var cssWideKeywords = map[string]bool{
	"inherit":      true,
	"initial":      true,
	"unset":        true,
	"revert":       true,
	"revert-layer": true,
	"transparent":  true,
	"none":         true,
}

// ExtractColor reports the single literal color declared by css. It returns
// false when css declares no literal color or more than one distinct one.
func ExtractColor(source string) (Color, bool) {
	if strings.TrimSpace(source) == "" {
		return Color{}, false
	}

	var found *Color
	p := css.NewParser(parse.NewInputString(source), false)
	for {
		gt, _, data := p.Next()
		if gt == css.ErrorGrammar {
			// io.EOF, or a syntax error after which nothing more is trusted
			break
		}
		if gt != css.DeclarationGrammar {
			continue
		}
		if !colorProperties[strings.ToLower(string(data))] {
			continue
		}

		c, ok := literalColor(declarationValue(p.Values()))
		if !ok {
			continue
		}
		if found != nil && found.key() != c.key() {
			return Color{}, false
		}
		found = &c
	}

	if found == nil {
		return Color{}, false
	}
	return *found, true
}

func declarationValue(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.Write(t.Data)
	}
	value := strings.TrimSpace(sb.String())
	if i := strings.Index(strings.ToLower(value), "!important"); i >= 0 {
		value = strings.TrimSpace(value[:i])
	}
	return value
}

func literalColor(value string) (Color, bool) {
	lower := strings.ToLower(value)
	if lower == "" || cssWideKeywords[lower] {
		return Color{}, false
	}
	for _, fragment := range nonLiteral {
		if strings.Contains(lower, fragment) {
			return Color{}, false
		}
	}

	parsed, err := csscolorparser.Parse(value)
	if err != nil {
		return Color{}, false
	}
	return Color{R: parsed.R, G: parsed.G, B: parsed.B, A: parsed.A, Literal: value}, true
}
