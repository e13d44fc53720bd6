package discovery

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/yacobolo/classlens/internal/engine"
)

// defaultLayer is used for classes declared outside any @layer block.
const defaultLayer = engine.LayerComponents

// parserState maintains context while lexing one stylesheet
type parserState struct {
	currentLayer string
	filename     string
	classes      map[string]*engine.Class
}

// ParseCSS extracts plain class rules from stylesheet content. Rules with
// pseudo-classes, and classes inside :not()/:is()/:where(), are skipped:
// only the base declarations of a class become completions.
func ParseCSS(content, filename string) []engine.Class {
	s := &parserState{
		filename: filename,
		classes:  make(map[string]*engine.Class),
	}

	lexer := css.NewLexer(parse.NewInputString(content))
	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			break
		}

		if tt == css.AtKeywordToken && string(text) == "@layer" {
			s.handleLayerDeclaration(lexer)
			continue
		}

		if tt == css.DelimToken && len(text) > 0 && text[0] == '.' {
			s.handleClassRule(lexer)
		}
	}

	names := make([]string, 0, len(s.classes))
	for name := range s.classes {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]engine.Class, 0, len(names))
	for _, name := range names {
		out = append(out, *s.classes[name])
	}
	return out
}

// parseFile reads and parses a single stylesheet
func parseFile(path string) ([]engine.Class, error) {
	// #nosec G304 - path comes from the project configuration
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseCSS(string(content), path), nil
}

// handleLayerDeclaration processes "@layer name {" and "@layer a, b;"
func (s *parserState) handleLayerDeclaration(lexer *css.Lexer) {
	var layerName string
	for {
		tt, text := lexer.Next()
		switch tt {
		case css.ErrorToken, css.SemicolonToken:
			return
		case css.IdentToken:
			layerName = string(text)
		case css.LeftBraceToken:
			if layerName != "" {
				s.currentLayer = layerName
			}
			return
		}
	}
}

// handleClassRule reads the selector list after a '.' up to its block and
// records the declarations for every plain class selector in it.
func (s *parserState) handleClassRule(lexer *css.Lexer) {
	tt, name := lexer.Next()
	if tt != css.IdentToken {
		return
	}

	var selectors []string
	current, plain := string(name), true

	for {
		tt, text := lexer.Next()
		switch {
		case tt == css.ErrorToken:
			return

		case tt == css.ColonToken:
			// :hover and friends describe states, not the class itself
			plain = false

		case tt == css.DelimToken && len(text) > 0 && text[0] == '.':
			tt2, next := lexer.Next()
			if tt2 != css.IdentToken {
				continue
			}
			if current == "" {
				current, plain = string(next), true
			} else {
				// compound selector .a.b: neither is a plain class
				plain = false
			}

		case tt == css.CommaToken:
			if current != "" && plain {
				selectors = append(selectors, current)
			}
			current, plain = "", true

		case tt == css.WhitespaceToken:

		case tt == css.LeftBraceToken:
			if current != "" && plain {
				selectors = append(selectors, current)
			}
			s.apply(selectors, extractDeclarations(lexer))
			return

		default:
			// descendant or attribute selectors
			plain = false
		}
	}
}

func (s *parserState) apply(selectors []string, props map[string]string) {
	if len(props) == 0 {
		return
	}
	for _, name := range selectors {
		class, exists := s.classes[name]
		if !exists {
			layer := s.currentLayer
			if layer == "" {
				layer = defaultLayer
			}
			class = &engine.Class{
				Name:       name,
				Layer:      layer,
				Properties: make(map[string]string),
				SourceFile: s.filename,
			}
			s.classes[name] = class
		}
		for k, v := range props {
			class.Properties[k] = v
		}
	}
}

// extractDeclarations reads property: value pairs until the closing brace.
// Nested blocks are skipped.
func extractDeclarations(lexer *css.Lexer) map[string]string {
	props := make(map[string]string)

	var currentProp string
	var currentVal []string
	flush := func() {
		if currentProp != "" && len(currentVal) > 0 {
			props[currentProp] = strings.TrimSpace(strings.Join(currentVal, ""))
		}
		currentProp, currentVal = "", nil
	}

	depth := 0
	for {
		tt, text := lexer.Next()

		switch {
		case tt == css.ErrorToken:
			flush()
			return props
		case tt == css.LeftBraceToken:
			depth++
			currentProp, currentVal = "", nil
		case tt == css.RightBraceToken:
			if depth == 0 {
				flush()
				return props
			}
			depth--
		case depth > 0:
		case tt == css.IdentToken && currentProp == "":
			currentProp = string(text)
		case tt == css.CustomPropertyNameToken && currentProp == "":
			currentProp = string(text)
		case tt == css.ColonToken && currentProp != "" && len(currentVal) == 0:
		case tt == css.WhitespaceToken && len(currentVal) == 0:
		case tt == css.SemicolonToken:
			flush()
		case currentProp != "":
			currentVal = append(currentVal, string(text))
		}
	}
}
