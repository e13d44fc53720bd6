package engine

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"
)

// Enumerate returns completion candidates for the token under offset. The
// returned bounds cover the whole token so that accepting a candidate
// replaces it. Candidates match the text between the token start and offset.
func (g *Generator) Enumerate(ctx context.Context, text string, offset int) (Suggestions, error) {
	if err := ctx.Err(); err != nil {
		return Suggestions{}, err
	}
	if offset < 0 || offset > len(text) {
		return Suggestions{}, nil
	}

	start, end := g.bounds(text, offset)
	result := Suggestions{Start: start, End: end}

	prefix := text[start:offset]
	if prefix == "" {
		return result, nil
	}

	lead := ""
	if rest, ok := strings.CutPrefix(prefix, "!"); ok {
		lead, prefix = "!", rest
	}
	variants, partial := splitVariants(prefix)
	for _, name := range variants {
		if _, ok := g.variants[name]; !ok {
			return result, nil
		}
		lead += name + ":"
	}

	for _, candidate := range g.candidates() {
		if len(result.Items) >= g.maxItems {
			break
		}
		if !strings.HasPrefix(candidate, partial) {
			continue
		}
		// variants cannot follow an important marker
		if lead == "!" && strings.HasSuffix(candidate, ":") {
			continue
		}
		result.Items = append(result.Items, Candidate{
			Token:    lead + candidate,
			Category: g.category(candidate),
		})
	}

	return result, nil
}

// bounds expands offset over token characters in both directions.
func (g *Generator) bounds(text string, offset int) (int, int) {
	start := offset
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !g.IsTokenChar(r) {
			break
		}
		start -= size
	}
	end := offset
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !g.IsTokenChar(r) {
			break
		}
		end += size
	}
	return start, end
}

func (g *Generator) category(candidate string) PropertyCategory {
	if strings.HasSuffix(candidate, ":") {
		return ""
	}
	_, decls := g.resolve(candidate)
	return categorizeDeclarations(decls)
}

// candidates returns the sorted candidate index, building it on first use.
func (g *Generator) candidates() []string {
	g.indexOnce.Do(func() {
		seen := make(map[string]bool)
		add := func(token string) {
			if token != "" && !seen[token] {
				seen[token] = true
				g.index = append(g.index, token)
			}
		}

		for name := range g.variants {
			add(name + ":")
		}
		for name := range staticRules {
			add(name)
		}
		for _, r := range dynamicRules {
			for _, template := range r.templates {
				for _, token := range expandTemplate(g.theme, template) {
					// templates may offer values a rule rejects
					if _, decls := g.resolveUtility(token); len(decls) > 0 {
						add(token)
					}
				}
			}
		}
		for name := range g.shortcuts {
			add(name)
		}
		for _, r := range g.custom {
			add(r.name)
		}
		for name := range g.classes {
			add(name)
		}
		for _, name := range g.safelist {
			add(name)
		}

		sort.Slice(g.index, func(i, j int) bool {
			a, b := g.index[i], g.index[j]
			if len(a) != len(b) {
				return len(a) < len(b)
			}
			return naturalLess(a, b)
		})
	})
	return g.index
}

// naturalLess orders strings with embedded numbers numerically, so that
// "p-2" sorts before "p-10".
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		da, db := isDigit(a[0]), isDigit(b[0])
		if da && db {
			na, ra := leadingDigits(a)
			nb, rb := leadingDigits(b)
			na, nb = strings.TrimLeft(na, "0"), strings.TrimLeft(nb, "0")
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			a, b = ra, rb
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func leadingDigits(s string) (string, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}
