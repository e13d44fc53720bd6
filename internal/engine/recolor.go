package engine

import "strings"

// Recolor rewrites a color utility to use literal as an arbitrary color,
// keeping its variants and important marker. It reports false when token
// is not a color utility.
func (g *Generator) Recolor(token, literal string) (string, bool) {
	body, important := strings.CutPrefix(token, "!")
	names, utility := splitVariants(body)
	utility, innerImportant := strings.CutPrefix(utility, "!")

	prefix, _, ok := strings.Cut(utility, "-")
	if !ok {
		return "", false
	}
	property, ok := colorProperties[prefix]
	if !ok {
		return "", false
	}
	if _, decls := g.resolveUtility(utility); len(decls) != 1 || decls[0].Property != property {
		return "", false
	}

	var sb strings.Builder
	if important {
		sb.WriteByte('!')
	}
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteByte(':')
	}
	if innerImportant {
		sb.WriteByte('!')
	}
	sb.WriteString(prefix)
	sb.WriteString("-[")
	sb.WriteString(literal)
	sb.WriteByte(']')
	return sb.String(), true
}
