package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// Theme holds the design tokens rules resolve values against.
type Theme struct {
	Colors      map[string]string
	Breakpoints map[string]string
	breakpoints []string // ordered by min-width, for stable output and completion
}

var (
	defaultBreakpoints = []struct{ name, width string }{
		{"sm", "640px"},
		{"md", "768px"},
		{"lg", "1024px"},
		{"xl", "1280px"},
		{"2xl", "1536px"},
	}

	// spacingSteps are the completion values for spacing utilities; any
	// non-negative number resolves.
	spacingSteps = []string{
		"0", "0.5", "1", "1.5", "2", "2.5", "3", "3.5", "4", "5", "6", "7", "8", "9", "10",
		"11", "12", "14", "16", "20", "24", "28", "32", "36", "40", "44", "48", "52", "56",
		"60", "64", "72", "80", "96", "px",
	}

	sizeKeywords = []string{"auto", "full", "screen", "min", "max", "fit", "1/2", "1/3", "2/3", "1/4", "3/4"}

	fontSizes = map[string][2]string{
		"xs":   {"0.75rem", "1rem"},
		"sm":   {"0.875rem", "1.25rem"},
		"base": {"1rem", "1.5rem"},
		"lg":   {"1.125rem", "1.75rem"},
		"xl":   {"1.25rem", "1.75rem"},
		"2xl":  {"1.5rem", "2rem"},
		"3xl":  {"1.875rem", "2.25rem"},
		"4xl":  {"2.25rem", "2.5rem"},
		"5xl":  {"3rem", "1"},
		"6xl":  {"3.75rem", "1"},
		"7xl":  {"4.5rem", "1"},
		"8xl":  {"6rem", "1"},
		"9xl":  {"8rem", "1"},
	}

	radii = map[string]string{
		"":     "0.25rem",
		"none": "0",
		"sm":   "0.125rem",
		"md":   "0.375rem",
		"lg":   "0.5rem",
		"xl":   "0.75rem",
		"2xl":  "1rem",
		"3xl":  "1.5rem",
		"full": "9999px",
	}

	lineHeights = map[string]string{
		"none":    "1",
		"tight":   "1.25",
		"snug":    "1.375",
		"normal":  "1.5",
		"relaxed": "1.625",
		"loose":   "2",
	}

	letterSpacings = map[string]string{
		"tighter": "-0.05em",
		"tight":   "-0.025em",
		"normal":  "0em",
		"wide":    "0.025em",
		"wider":   "0.05em",
		"widest":  "0.1em",
	}
)

// newTheme merges user overrides from cfg over the default theme.
func newTheme(cfg *Config) Theme {
	t := Theme{
		Colors: map[string]string{
			"black":       "#000000",
			"white":       "#ffffff",
			"transparent": "transparent",
			"current":     "currentColor",
			"inherit":     "inherit",
		},
		Breakpoints: map[string]string{},
	}
	for name, shades := range palette {
		for i, step := range shadeSteps {
			t.Colors[name+"-"+step] = shades[i]
		}
		// bare name resolves to the 400 shade
		t.Colors[name] = shades[4]
	}
	for name, value := range cfg.Colors {
		t.Colors[name] = value
	}

	for _, bp := range defaultBreakpoints {
		t.Breakpoints[bp.name] = bp.width
	}
	for name, width := range cfg.Breakpoints {
		t.Breakpoints[name] = width
	}
	t.breakpoints = sortedBreakpoints(t.Breakpoints)

	return t
}

func sortedBreakpoints(bps map[string]string) []string {
	names := make([]string, 0, len(bps))
	for name := range bps {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		wi, wj := pxValue(bps[names[i]]), pxValue(bps[names[j]])
		if wi != wj {
			return wi < wj
		}
		return names[i] < names[j]
	})
	return names
}

// pxValue extracts the leading number of a length for ordering purposes.
func pxValue(s string) float64 {
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return math.MaxFloat64
	}
	return f
}

// formatNumber renders f without trailing zeros, rounded to 6 decimals.
func formatNumber(f float64) string {
	return strconv.FormatFloat(math.Round(f*1e6)/1e6, 'f', -1, 64)
}

// arbitrary unwraps "[value]" and converts underscores to spaces.
func arbitrary(v string) (string, bool) {
	if len(v) < 3 || v[0] != '[' || v[len(v)-1] != ']' {
		return "", false
	}
	return strings.ReplaceAll(v[1:len(v)-1], "_", " "), true
}

// spacing resolves a spacing step: numbers are quarter rems.
func spacing(v string) (string, bool) {
	if v == "px" {
		return "1px", true
	}
	if a, ok := arbitrary(v); ok {
		return a, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return "", false
	}
	if f == 0 {
		return "0", true
	}
	return formatNumber(f*0.25) + "rem", true
}

// size resolves width/height-like values; axis is "w" or "h".
func size(v, axis string) (string, bool) {
	switch v {
	case "auto":
		return "auto", true
	case "full":
		return "100%", true
	case "screen":
		if axis == "h" {
			return "100vh", true
		}
		return "100vw", true
	case "min", "max", "fit":
		return v + "-content", true
	}
	if num, den, ok := strings.Cut(v, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return "", false
		}
		return formatNumber(n/d*100) + "%", true
	}
	return spacing(v)
}

// color resolves a theme color, optionally with an opacity suffix "/50".
func (t Theme) color(v string) (string, bool) {
	name, opacity, hasOpacity := strings.Cut(v, "/")
	if strings.HasPrefix(v, "[") {
		// an arbitrary value may contain "/" itself
		end := strings.LastIndexByte(v, ']') + 1
		name = v[:end]
		opacity, hasOpacity = strings.CutPrefix(v[end:], "/")
		if !hasOpacity && end != len(v) {
			return "", false
		}
	}

	value, ok := t.Colors[name]
	if !ok {
		a, isArbitrary := arbitrary(name)
		if !isArbitrary {
			return "", false
		}
		if _, err := csscolorparser.Parse(a); err != nil {
			return "", false
		}
		value = a
	}
	if !hasOpacity {
		return value, true
	}

	pct, err := strconv.ParseFloat(opacity, 64)
	if err != nil || pct < 0 || pct > 100 {
		return "", false
	}
	parsed, err := csscolorparser.Parse(value)
	if err != nil {
		// keywords like currentColor carry no channels to fade
		return "", false
	}
	r, g, b, _ := parsed.RGBA255()
	return "rgba(" + strconv.Itoa(int(r)) + "," + strconv.Itoa(int(g)) + "," +
		strconv.Itoa(int(b)) + "," + formatNumber(parsed.A*pct/100) + ")", true
}
