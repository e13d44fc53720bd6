package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// decl is shorthand for building declaration lists in the rule tables.
func decl(pairs ...string) []Declaration {
	out := make([]Declaration, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Declaration{Property: pairs[i], Value: pairs[i+1]})
	}
	return out
}

// staticRules are utilities with a fixed name
var staticRules = map[string][]Declaration{
	// Display
	"block":        decl("display", "block"),
	"inline-block": decl("display", "inline-block"),
	"inline":       decl("display", "inline"),
	"flex":         decl("display", "flex"),
	"inline-flex":  decl("display", "inline-flex"),
	"grid":         decl("display", "grid"),
	"inline-grid":  decl("display", "inline-grid"),
	"contents":     decl("display", "contents"),
	"table":        decl("display", "table"),
	"hidden":       decl("display", "none"),

	// Position
	"static":   decl("position", "static"),
	"fixed":    decl("position", "fixed"),
	"absolute": decl("position", "absolute"),
	"relative": decl("position", "relative"),
	"sticky":   decl("position", "sticky"),

	// Flexbox
	"flex-row":         decl("flex-direction", "row"),
	"flex-row-reverse": decl("flex-direction", "row-reverse"),
	"flex-col":         decl("flex-direction", "column"),
	"flex-col-reverse": decl("flex-direction", "column-reverse"),
	"flex-wrap":        decl("flex-wrap", "wrap"),
	"flex-nowrap":      decl("flex-wrap", "nowrap"),
	"flex-1":           decl("flex", "1 1 0%"),
	"flex-auto":        decl("flex", "1 1 auto"),
	"flex-initial":     decl("flex", "0 1 auto"),
	"flex-none":        decl("flex", "none"),
	"grow":             decl("flex-grow", "1"),
	"grow-0":           decl("flex-grow", "0"),
	"shrink":           decl("flex-shrink", "1"),
	"shrink-0":         decl("flex-shrink", "0"),
	"items-start":      decl("align-items", "flex-start"),
	"items-end":        decl("align-items", "flex-end"),
	"items-center":     decl("align-items", "center"),
	"items-baseline":   decl("align-items", "baseline"),
	"items-stretch":    decl("align-items", "stretch"),
	"self-auto":        decl("align-self", "auto"),
	"self-start":       decl("align-self", "flex-start"),
	"self-end":         decl("align-self", "flex-end"),
	"self-center":      decl("align-self", "center"),
	"justify-start":    decl("justify-content", "flex-start"),
	"justify-end":      decl("justify-content", "flex-end"),
	"justify-center":   decl("justify-content", "center"),
	"justify-between":  decl("justify-content", "space-between"),
	"justify-around":   decl("justify-content", "space-around"),
	"justify-evenly":   decl("justify-content", "space-evenly"),

	// Typography
	"text-left":     decl("text-align", "left"),
	"text-center":   decl("text-align", "center"),
	"text-right":    decl("text-align", "right"),
	"text-justify":  decl("text-align", "justify"),
	"uppercase":     decl("text-transform", "uppercase"),
	"lowercase":     decl("text-transform", "lowercase"),
	"capitalize":    decl("text-transform", "capitalize"),
	"normal-case":   decl("text-transform", "none"),
	"italic":        decl("font-style", "italic"),
	"not-italic":    decl("font-style", "normal"),
	"underline":     decl("text-decoration-line", "underline"),
	"line-through":  decl("text-decoration-line", "line-through"),
	"no-underline":  decl("text-decoration", "none"),
	"truncate":      decl("overflow", "hidden", "text-overflow", "ellipsis", "white-space", "nowrap"),
	"break-words":   decl("overflow-wrap", "break-word"),
	"font-sans":     decl("font-family", `ui-sans-serif,system-ui,sans-serif`),
	"font-serif":    decl("font-family", `ui-serif,Georgia,Cambria,"Times New Roman",Times,serif`),
	"font-mono":     decl("font-family", `ui-monospace,SFMono-Regular,Menlo,Monaco,Consolas,monospace`),
	"antialiased":   decl("-webkit-font-smoothing", "antialiased", "-moz-osx-font-smoothing", "grayscale"),

	"whitespace-normal": decl("white-space", "normal"),
	"whitespace-nowrap": decl("white-space", "nowrap"),
	"whitespace-pre":    decl("white-space", "pre"),

	// Overflow and visibility
	"overflow-auto":    decl("overflow", "auto"),
	"overflow-hidden":  decl("overflow", "hidden"),
	"overflow-visible": decl("overflow", "visible"),
	"overflow-scroll":  decl("overflow", "scroll"),
	"visible":          decl("visibility", "visible"),
	"invisible":        decl("visibility", "hidden"),

	// Borders
	"border":        decl("border-width", "1px"),
	"border-solid":  decl("border-style", "solid"),
	"border-dashed": decl("border-style", "dashed"),
	"border-dotted": decl("border-style", "dotted"),
	"border-none":   decl("border-style", "none"),

	// Interactivity
	"cursor-pointer":      decl("cursor", "pointer"),
	"cursor-default":      decl("cursor", "default"),
	"cursor-not-allowed":  decl("cursor", "not-allowed"),
	"cursor-text":         decl("cursor", "text"),
	"cursor-wait":         decl("cursor", "wait"),
	"select-none":         decl("user-select", "none"),
	"select-text":         decl("user-select", "text"),
	"select-all":          decl("user-select", "all"),
	"pointer-events-none": decl("pointer-events", "none"),
	"pointer-events-auto": decl("pointer-events", "auto"),
	"box-border":          decl("box-sizing", "border-box"),
	"box-content":         decl("box-sizing", "content-box"),

	// Transitions
	"transition": decl(
		"transition-property", "color,background-color,border-color,text-decoration-color,fill,stroke,opacity,box-shadow,transform",
		"transition-timing-function", "cubic-bezier(0.4,0,0.2,1)",
		"transition-duration", "150ms",
	),
	"transition-none": decl("transition-property", "none"),
}

var fontWeights = map[string]string{
	"thin":       "100",
	"extralight": "200",
	"light":      "300",
	"normal":     "400",
	"medium":     "500",
	"semibold":   "600",
	"bold":       "700",
	"extrabold":  "800",
	"black":      "900",
}

// directions maps a side suffix to the physical properties it expands to.
var directions = map[string][]string{
	"":  {""},
	"x": {"-left", "-right"},
	"y": {"-top", "-bottom"},
	"t": {"-top"},
	"r": {"-right"},
	"b": {"-bottom"},
	"l": {"-left"},
}

var directionKeys = []string{"", "x", "y", "t", "r", "b", "l"}

var corners = map[string][]string{
	"":   {""},
	"t":  {"top-left", "top-right"},
	"r":  {"top-right", "bottom-right"},
	"b":  {"bottom-right", "bottom-left"},
	"l":  {"top-left", "bottom-left"},
	"tl": {"top-left"},
	"tr": {"top-right"},
	"br": {"bottom-right"},
	"bl": {"bottom-left"},
}

// colorProperties maps a color utility prefix to the property it sets.
var colorProperties = map[string]string{
	"text":       "color",
	"bg":         "background-color",
	"border":     "border-color",
	"outline":    "outline-color",
	"fill":       "fill",
	"stroke":     "stroke",
	"decoration": "text-decoration-color",
	"accent":     "accent-color",
	"caret":      "caret-color",
}

// dynamicRule matches a utility body by pattern. build returns nil when the
// captured value does not resolve.
type dynamicRule struct {
	pattern   *regexp.Regexp
	build     func(t Theme, m []string) []Declaration
	templates []string // completion templates, see expandTemplate
}

func sided(property string, side string, value string) []Declaration {
	var out []Declaration
	for _, suffix := range directions[side] {
		out = append(out, Declaration{Property: property + suffix, Value: value})
	}
	return out
}

func negate(neg, value string) string {
	if neg == "" || value == "0" || value == "auto" {
		return value
	}
	if strings.HasPrefix(value, "calc(") || strings.Contains(value, " ") {
		return "calc(" + value + " * -1)"
	}
	return "-" + value
}

func sideTemplates(prefix, placeholder string) []string {
	out := make([]string, 0, len(directionKeys))
	for _, side := range directionKeys {
		out = append(out, prefix+side+"-"+placeholder)
	}
	return out
}

var dynamicRules = []dynamicRule{
	{
		pattern: regexp.MustCompile(`^(-)?m([xytrbl])?-(.+)$`),
		build: func(_ Theme, m []string) []Declaration {
			v, ok := "auto", m[3] == "auto"
			if !ok {
				v, ok = spacing(m[3])
			}
			if !ok {
				return nil
			}
			return sided("margin", m[2], negate(m[1], v))
		},
		templates: append(sideTemplates("m", "<spacing>"), "m-auto", "mx-auto", "my-auto"),
	},
	{
		pattern: regexp.MustCompile(`^p([xytrbl])?-(.+)$`),
		build: func(_ Theme, m []string) []Declaration {
			v, ok := spacing(m[2])
			if !ok {
				return nil
			}
			return sided("padding", m[1], v)
		},
		templates: sideTemplates("p", "<spacing>"),
	},
	{
		pattern: regexp.MustCompile(`^gap(?:-([xy]))?-(.+)$`),
		build: func(_ Theme, m []string) []Declaration {
			v, ok := spacing(m[2])
			if !ok {
				return nil
			}
			switch m[1] {
			case "x":
				return decl("column-gap", v)
			case "y":
				return decl("row-gap", v)
			}
			return decl("gap", v)
		},
		templates: []string{"gap-<spacing>", "gap-x-<spacing>", "gap-y-<spacing>"},
	},
	{
		pattern: regexp.MustCompile(`^(-)?(inset|top|right|bottom|left)-(.+)$`),
		build: func(_ Theme, m []string) []Declaration {
			v, ok := size(m[3], "w")
			if !ok {
				return nil
			}
			return decl(m[2], negate(m[1], v))
		},
		templates: []string{"inset-<size>", "top-<size>", "right-<size>", "bottom-<size>", "left-<size>"},
	},
	{
		pattern: regexp.MustCompile(`^(min-|max-)?(w|h)-(.+)$`),
		build: func(_ Theme, m []string) []Declaration {
			v, ok := size(m[3], m[2])
			if !ok {
				return nil
			}
			property := "width"
			if m[2] == "h" {
				property = "height"
			}
			return decl(m[1]+property, v)
		},
		templates: []string{"w-<size>", "h-<size>", "min-w-<size>", "min-h-<size>", "max-w-<size>", "max-h-<size>"},
	},
	{
		pattern: regexp.MustCompile(`^text-(xs|sm|base|lg|[2-9]?xl)$`),
		build: func(_ Theme, m []string) []Declaration {
			fs := fontSizes[m[1]]
			return decl("font-size", fs[0], "line-height", fs[1])
		},
		templates: []string{"text-<fontsize>"},
	},
	{
		pattern: regexp.MustCompile(`^font-(\w+)$`),
		build: func(_ Theme, m []string) []Declaration {
			if w, ok := fontWeights[m[1]]; ok {
				return decl("font-weight", w)
			}
			if _, err := strconv.Atoi(m[1]); err == nil {
				return decl("font-weight", m[1])
			}
			return nil
		},
		templates: []string{"font-<weight>"},
	},
	{
		pattern: regexp.MustCompile(`^leading-(.+)$`),
		build: func(_ Theme, m []string) []Declaration {
			if v, ok := lineHeights[m[1]]; ok {
				return decl("line-height", v)
			}
			if v, ok := spacing(m[1]); ok {
				return decl("line-height", v)
			}
			return nil
		},
		templates: []string{"leading-<leading>"},
	},
	{
		pattern: regexp.MustCompile(`^tracking-(.+)$`),
		build: func(_ Theme, m []string) []Declaration {
			if v, ok := letterSpacings[m[1]]; ok {
				return decl("letter-spacing", v)
			}
			if v, ok := arbitrary(m[1]); ok {
				return decl("letter-spacing", v)
			}
			return nil
		},
		templates: []string{"tracking-<tracking>"},
	},
	{
		pattern: regexp.MustCompile(`^border(?:-([xytrbl]))?(?:-(\d+|\[.+\]))?$`),
		build: func(_ Theme, m []string) []Declaration {
			v := "1px"
			if m[2] != "" {
				if a, ok := arbitrary(m[2]); ok {
					if _, err := csscolorparser.Parse(a); err == nil {
						// border-[#fff] is a color
						return nil
					}
					v = a
				} else {
					v = m[2] + "px"
				}
			}
			var out []Declaration
			for _, suffix := range directions[m[1]] {
				out = append(out, Declaration{Property: "border" + suffix + "-width", Value: v})
			}
			return out
		},
		templates: []string{"border-0", "border-2", "border-4", "border-8", "border-x", "border-y", "border-t", "border-r", "border-b", "border-l"},
	},
	{
		pattern: regexp.MustCompile(`^rounded(?:-(tl|tr|br|bl|t|r|b|l))?(?:-(none|sm|md|lg|xl|2xl|3xl|full|\[.+\]))?$`),
		build: func(_ Theme, m []string) []Declaration {
			v, ok := radii[m[2]]
			if !ok {
				if v, ok = arbitrary(m[2]); !ok {
					return nil
				}
			}
			var out []Declaration
			for _, corner := range corners[m[1]] {
				property := "border-radius"
				if corner != "" {
					property = "border-" + corner + "-radius"
				}
				out = append(out, Declaration{Property: property, Value: v})
			}
			return out
		},
		templates: []string{"rounded", "rounded-<radius>", "rounded-t-<radius>", "rounded-b-<radius>", "rounded-l-<radius>", "rounded-r-<radius>"},
	},
	{
		pattern: regexp.MustCompile(`^(text|bg|border|outline|fill|stroke|decoration|accent|caret)-(.+)$`),
		build: func(t Theme, m []string) []Declaration {
			v, ok := t.color(m[2])
			if !ok {
				// text-[1.5rem] is a font size, not a color
				if a, isArbitrary := arbitrary(m[2]); isArbitrary && m[1] == "text" {
					return decl("font-size", a)
				}
				return nil
			}
			return decl(colorProperties[m[1]], v)
		},
		templates: []string{
			"text-<color>", "bg-<color>", "border-<color>", "outline-<color>", "fill-<color>",
			"stroke-<color>", "decoration-<color>", "accent-<color>", "caret-<color>",
		},
	},
	{
		pattern: regexp.MustCompile(`^opacity-(\d+)$`),
		build: func(_ Theme, m []string) []Declaration {
			n, _ := strconv.Atoi(m[1])
			if n > 100 {
				return nil
			}
			return decl("opacity", formatNumber(float64(n)/100))
		},
		templates: []string{"opacity-0", "opacity-25", "opacity-50", "opacity-75", "opacity-100"},
	},
	{
		pattern: regexp.MustCompile(`^(-)?z-(\d+|auto)$`),
		build: func(_ Theme, m []string) []Declaration {
			return decl("z-index", negate(m[1], m[2]))
		},
		templates: []string{"z-0", "z-10", "z-20", "z-30", "z-40", "z-50", "z-auto"},
	},
	{
		pattern: regexp.MustCompile(`^grid-cols-(\d+|none)$`),
		build: func(_ Theme, m []string) []Declaration {
			if m[1] == "none" {
				return decl("grid-template-columns", "none")
			}
			return decl("grid-template-columns", "repeat("+m[1]+",minmax(0,1fr))")
		},
		templates: []string{"grid-cols-1", "grid-cols-2", "grid-cols-3", "grid-cols-4", "grid-cols-6", "grid-cols-12", "grid-cols-none"},
	},
	{
		pattern: regexp.MustCompile(`^(col|row)-span-(\d+|full)$`),
		build: func(_ Theme, m []string) []Declaration {
			property := "grid-column"
			if m[1] == "row" {
				property = "grid-row"
			}
			if m[2] == "full" {
				return decl(property, "1/-1")
			}
			return decl(property, "span "+m[2]+"/span "+m[2])
		},
		templates: []string{"col-span-1", "col-span-2", "col-span-3", "col-span-full", "row-span-1", "row-span-2", "row-span-full"},
	},
	{
		pattern: regexp.MustCompile(`^duration-(\d+)$`),
		build: func(_ Theme, m []string) []Declaration {
			return decl("transition-duration", m[1]+"ms")
		},
		templates: []string{"duration-75", "duration-100", "duration-150", "duration-200", "duration-300", "duration-500", "duration-700", "duration-1000"},
	},
}

// expandTemplate substitutes the placeholder in a completion template with
// every value the theme offers for it.
func expandTemplate(t Theme, template string) []string {
	start := strings.IndexByte(template, '<')
	if start < 0 {
		return []string{template}
	}
	end := strings.IndexByte(template, '>')
	prefix, placeholder := template[:start], template[start+1:end]

	var values []string
	switch placeholder {
	case "spacing":
		values = spacingSteps
	case "size":
		values = append(append([]string{}, spacingSteps...), sizeKeywords...)
	case "color":
		values = make([]string, 0, len(t.Colors))
		for name := range t.Colors {
			values = append(values, name)
		}
	case "fontsize":
		values = keys(fontSizes)
	case "weight":
		values = keys(fontWeights)
	case "leading":
		values = keys(lineHeights)
	case "tracking":
		values = keys(letterSpacings)
	case "radius":
		for k := range radii {
			if k != "" {
				values = append(values, k)
			}
		}
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, prefix+v)
	}
	return out
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
