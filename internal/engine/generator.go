package engine

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Default layers reported in the CSS header
const (
	LayerDefault    = "default"
	LayerShortcuts  = "shortcuts"
	LayerComponents = "components"
)

// variant rewrites the selector or wraps the rule of a utility.
type variant struct {
	pseudo string // appended to the selector, ":hover"
	parent string // prepended to the selector, ".dark "
	media  string // wraps the rule, "(min-width:640px)"
}

var pseudoVariants = map[string]string{
	"hover":         ":hover",
	"focus":         ":focus",
	"focus-visible": ":focus-visible",
	"focus-within":  ":focus-within",
	"active":        ":active",
	"disabled":      ":disabled",
	"visited":       ":visited",
	"checked":       ":checked",
	"first":         ":first-child",
	"last":          ":last-child",
	"odd":           ":nth-child(odd)",
	"even":          ":nth-child(even)",
}

// customRule is a configured rule with its pattern compiled.
type customRule struct {
	name    string
	pattern *regexp.Regexp
	decls   []Declaration
}

// Generator compiles utility tokens to CSS and enumerates completion
// candidates. A Generator is immutable after New and safe for concurrent use.
type Generator struct {
	theme     Theme
	variants  map[string]variant
	shortcuts map[string][]string
	custom    []customRule
	classes   map[string]Class
	safelist  []string
	maxItems  int

	indexOnce sync.Once
	index     []string
}

// New builds a Generator from cfg. It fails when a custom rule is invalid.
func New(cfg *Config) (*Generator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	g := &Generator{
		theme:     newTheme(cfg),
		variants:  make(map[string]variant),
		shortcuts: make(map[string][]string, len(cfg.Shortcuts)),
		classes:   make(map[string]Class, len(cfg.Classes)),
		safelist:  cfg.Safelist,
		maxItems:  cfg.MaxItems,
	}
	if g.maxItems <= 0 {
		g.maxItems = DefaultMaxItems
	}

	for name, pseudo := range pseudoVariants {
		g.variants[name] = variant{pseudo: pseudo}
	}
	g.variants["dark"] = variant{parent: ".dark "}
	for name, width := range g.theme.Breakpoints {
		g.variants[name] = variant{media: "(min-width:" + width + ")"}
	}

	for name, body := range cfg.Shortcuts {
		g.shortcuts[name] = strings.Fields(body)
	}

	for i, r := range cfg.Rules {
		rule, err := compileCustomRule(r)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		g.custom = append(g.custom, rule)
	}

	for _, c := range cfg.Classes {
		g.classes[c.Name] = c
	}

	return g, nil
}

func compileCustomRule(r CustomRule) (customRule, error) {
	if (r.Name == "") == (r.Match == "") {
		return customRule{}, fmt.Errorf("exactly one of name or match is required")
	}
	if len(r.CSS) == 0 {
		return customRule{}, fmt.Errorf("%s%s: css is empty", r.Name, r.Match)
	}

	rule := customRule{name: r.Name, decls: sortedDeclarations(r.CSS)}
	if r.Match != "" {
		pattern := r.Match
		if !strings.HasPrefix(pattern, "^") {
			pattern = "^" + pattern
		}
		if !strings.HasSuffix(pattern, "$") {
			pattern += "$"
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return customRule{}, fmt.Errorf("invalid match pattern %q: %w", r.Match, err)
		}
		rule.pattern = re
	}
	return rule, nil
}

func sortedDeclarations(props map[string]string) []Declaration {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Declaration, 0, len(names))
	for _, name := range names {
		out = append(out, Declaration{Property: name, Value: props[name]})
	}
	return out
}

// IsTokenChar reports whether r may appear inside a utility token.
func (g *Generator) IsTokenChar(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	return strings.ContainsRune("-_:/.[]#%!()&@*+~", r)
}

// Compile returns the CSS for token, or "" when no rule matches.
func (g *Generator) Compile(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if token == "" {
		return "", nil
	}
	if err := checkBrackets(token); err != nil {
		return "", err
	}

	body := token
	important := false
	if rest, ok := strings.CutPrefix(body, "!"); ok {
		body, important = rest, true
	}

	names, utility := splitVariants(body)
	if rest, ok := strings.CutPrefix(utility, "!"); ok && !important {
		utility, important = rest, true
	}
	variants := make([]variant, 0, len(names))
	for _, name := range names {
		v, ok := g.variants[name]
		if !ok {
			return "", nil
		}
		variants = append(variants, v)
	}

	layer, decls := g.resolve(utility)
	if len(decls) == 0 {
		return "", nil
	}

	return render(token, layer, decls, variants, important), nil
}

// resolve maps a bare utility, without variants, to its layer and declarations.
func (g *Generator) resolve(utility string) (string, []Declaration) {
	if parts, ok := g.shortcuts[utility]; ok {
		var decls []Declaration
		for _, part := range parts {
			if _, d := g.resolveUtility(part); len(d) > 0 {
				decls = append(decls, d...)
			}
		}
		return LayerShortcuts, decls
	}
	return g.resolveUtility(utility)
}

func (g *Generator) resolveUtility(utility string) (string, []Declaration) {
	for _, r := range g.custom {
		if r.pattern == nil {
			if r.name == utility {
				return LayerDefault, r.decls
			}
			continue
		}
		if m := r.pattern.FindStringSubmatch(utility); m != nil {
			return LayerDefault, substitute(r.decls, m)
		}
	}

	if c, ok := g.classes[utility]; ok && len(c.Properties) > 0 {
		layer := c.Layer
		if layer == "" {
			layer = LayerComponents
		}
		return layer, sortedDeclarations(c.Properties)
	}

	if decls, ok := staticRules[utility]; ok {
		return LayerDefault, decls
	}

	for _, r := range dynamicRules {
		m := r.pattern.FindStringSubmatch(utility)
		if m == nil {
			continue
		}
		if decls := r.build(g.theme, m); len(decls) > 0 {
			return LayerDefault, decls
		}
	}
	return "", nil
}

// substitute replaces $1..$9 in declaration values with submatches.
func substitute(decls []Declaration, m []string) []Declaration {
	out := make([]Declaration, len(decls))
	for i, d := range decls {
		value := d.Value
		for n := len(m) - 1; n >= 1; n-- {
			value = strings.ReplaceAll(value, fmt.Sprintf("$%d", n), m[n])
		}
		out[i] = Declaration{Property: d.Property, Value: value}
	}
	return out
}

// checkBrackets rejects unbalanced or empty arbitrary values.
func checkBrackets(token string) error {
	depth := 0
	for i := 0; i < len(token); i++ {
		switch token[i] {
		case '[':
			if i+1 < len(token) && token[i+1] == ']' {
				return fmt.Errorf("%q: empty arbitrary value: %w", token, ErrMalformedToken)
			}
			depth++
		case ']':
			depth--
			if depth < 0 {
				return fmt.Errorf("%q: unexpected ']': %w", token, ErrMalformedToken)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("%q: unclosed '[': %w", token, ErrMalformedToken)
	}
	return nil
}

// splitVariants splits "md:hover:p-4" into ["md", "hover"] and "p-4".
// Colons inside arbitrary values do not separate variants.
func splitVariants(token string) ([]string, string) {
	var names []string
	depth, start := 0, 0
	for i := 0; i < len(token); i++ {
		switch token[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ':':
			if depth == 0 {
				names = append(names, token[start:i])
				start = i + 1
			}
		}
	}
	return names, token[start:]
}

func render(token, layer string, decls []Declaration, variants []variant, important bool) string {
	selector := "." + escapeSelector(token)
	var media []string
	for _, v := range variants {
		selector = v.parent + selector + v.pseudo
		if v.media != "" {
			media = append(media, v.media)
		}
	}

	var body strings.Builder
	body.WriteString(selector)
	body.WriteByte('{')
	for _, d := range decls {
		body.WriteString(d.Property)
		body.WriteByte(':')
		body.WriteString(d.Value)
		if important {
			body.WriteString(" !important")
		}
		body.WriteByte(';')
	}
	body.WriteByte('}')

	rule := body.String()
	for i := len(media) - 1; i >= 0; i-- {
		rule = "@media " + media[i] + "{" + rule + "}"
	}
	return "/* layer: " + layer + " */\n" + rule
}

// escapeSelector escapes token for use as a CSS class selector.
func escapeSelector(token string) string {
	var sb strings.Builder
	for i, r := range token {
		switch {
		case i == 0 && r >= '0' && r <= '9':
			fmt.Fprintf(&sb, "\\%x ", r)
		case r == '-' || r == '_' || r > 0x7f ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			sb.WriteRune(r)
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
