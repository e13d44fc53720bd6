package engine

import "strings"

// propertyCategories maps CSS property names to categories
var propertyCategories = map[string]PropertyCategory{
	// Visual
	"background":            CategoryVisual,
	"background-color":      CategoryVisual,
	"color":                 CategoryVisual,
	"border-color":          CategoryVisual,
	"border-radius":         CategoryVisual,
	"border-width":          CategoryVisual,
	"border-style":          CategoryVisual,
	"outline-color":         CategoryVisual,
	"text-decoration-color": CategoryVisual,
	"accent-color":          CategoryVisual,
	"caret-color":           CategoryVisual,
	"opacity":               CategoryVisual,
	"fill":                  CategoryVisual,
	"stroke":                CategoryVisual,
	"visibility":            CategoryVisual,

	// Layout
	"display":               CategoryLayout,
	"position":              CategoryLayout,
	"overflow":              CategoryLayout,
	"overflow-x":            CategoryLayout,
	"overflow-y":            CategoryLayout,
	"z-index":               CategoryLayout,
	"width":                 CategoryLayout,
	"height":                CategoryLayout,
	"min-width":             CategoryLayout,
	"min-height":            CategoryLayout,
	"max-width":             CategoryLayout,
	"max-height":            CategoryLayout,
	"gap":                   CategoryLayout,
	"row-gap":               CategoryLayout,
	"column-gap":            CategoryLayout,
	"inset":                 CategoryLayout,
	"top":                   CategoryLayout,
	"right":                 CategoryLayout,
	"bottom":                CategoryLayout,
	"left":                  CategoryLayout,
	"justify-content":       CategoryLayout,
	"align-items":           CategoryLayout,
	"align-self":            CategoryLayout,
	"grid-template-columns": CategoryLayout,
	"grid-column":           CategoryLayout,
	"grid-row":              CategoryLayout,
	"box-sizing":            CategoryLayout,

	// Typography
	"font-family":     CategoryTypography,
	"font-size":       CategoryTypography,
	"font-weight":     CategoryTypography,
	"font-style":      CategoryTypography,
	"line-height":     CategoryTypography,
	"letter-spacing":  CategoryTypography,
	"text-align":      CategoryTypography,
	"text-decoration": CategoryTypography,
	"text-transform":  CategoryTypography,
	"text-overflow":   CategoryTypography,
	"white-space":     CategoryTypography,
	"overflow-wrap":   CategoryTypography,

	// Effects
	"transition-property":        CategoryEffects,
	"transition-duration":        CategoryEffects,
	"transition-timing-function": CategoryEffects,
	"cursor":                     CategoryEffects,
	"pointer-events":             CategoryEffects,
	"user-select":                CategoryEffects,
	"box-shadow":                 CategoryEffects,
}

// categorizeProperty determines the category of a CSS property
func categorizeProperty(name string) PropertyCategory {
	if cat, exists := propertyCategories[name]; exists {
		return cat
	}

	// Vendor prefixes and custom properties are implementation details
	if strings.HasPrefix(name, "-") {
		return CategoryInternal
	}

	switch {
	case strings.HasPrefix(name, "border-"), strings.HasPrefix(name, "outline-"):
		return CategoryVisual
	case strings.HasPrefix(name, "font-"), strings.HasPrefix(name, "text-"):
		return CategoryTypography
	case strings.HasPrefix(name, "transition-"), strings.HasPrefix(name, "animation-"):
		return CategoryEffects
	}

	// padding-*, margin-*, flex-*, grid-* and anything unknown
	return CategoryLayout
}

// categorizeDeclarations picks the category of the first public declaration.
func categorizeDeclarations(decls []Declaration) PropertyCategory {
	for _, d := range decls {
		if cat := categorizeProperty(d.Property); cat != CategoryInternal {
			return cat
		}
	}
	if len(decls) > 0 {
		return CategoryInternal
	}
	return ""
}
