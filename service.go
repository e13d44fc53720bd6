package classlens

import (
	"context"
	"fmt"
)

// Completion is a suggestion ready for an editor: insert NewText over Span.
type Completion struct {
	Label   string
	NewText string
	Span    Span
	Detail  string
}

// ColorDecoration marks a token whose CSS resolves to one solid color.
type ColorDecoration struct {
	Span  Span
	Color Color
}

// Service answers editor requests. Each call loads the current snapshot once
// and uses it throughout, so a concurrent reload never mixes configurations
// within a request.
type Service struct {
	manager *Manager
}

// NewService returns a Service backed by m.
func NewService(m *Manager) *Service {
	return &Service{manager: m}
}

// Manager returns the configuration manager behind s.
func (s *Service) Manager() *Manager {
	return s.manager
}

// Suggest returns ranked suggestions for the token under offset. Empty text
// or an offset outside it yields no suggestions and no error.
func (s *Service) Suggest(ctx context.Context, text string, offset int) ([]Suggestion, error) {
	suggestions, err := suggest(ctx, s.manager.Current(), text, offset)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	return suggestions, nil
}

// Complete returns editor completions for the token under offset.
func (s *Service) Complete(ctx context.Context, text string, offset int) ([]Completion, error) {
	suggestions, err := s.Suggest(ctx, text, offset)
	if err != nil {
		return nil, err
	}

	out := make([]Completion, 0, len(suggestions))
	for _, sg := range suggestions {
		r := sg.ResolveReplacement(sg.Token)
		out = append(out, Completion{
			Label:   sg.Token,
			NewText: r.Text,
			Span:    r.Span,
			Detail:  sg.Detail,
		})
	}
	return out, nil
}

// Resolve compiles token against the current configuration. It reports
// false when the token matches no rule.
func (s *Service) Resolve(ctx context.Context, token string) (CompiledRule, bool) {
	rule := Compile(ctx, token, s.manager.Current())
	return rule, rule.CSS != ""
}

// HoverPreview compiles the token under offset. The returned rule carries
// the span the token was found at.
func (s *Service) HoverPreview(ctx context.Context, text string, offset int) (CompiledRule, bool, error) {
	if offset < 0 || offset > len(text) {
		return CompiledRule{}, false, fmt.Errorf("hover at %d of %d: %w", offset, len(text), ErrOffsetOutOfRange)
	}

	snap := s.manager.Current()
	span := snap.Scanner().FindUsageSpan(text, offset)
	if span.IsEmpty() {
		return CompiledRule{Span: span}, false, nil
	}

	rule := Compile(ctx, span.In(text), snap)
	rule.Span = span
	return rule, rule.CSS != "", nil
}

// ColorsIn returns a decoration for every token in text that compiles to a
// single solid color. Repeated tokens are compiled once.
func (s *Service) ColorsIn(ctx context.Context, text string) ([]ColorDecoration, error) {
	snap := s.manager.Current()
	memo := make(map[string]*Color)

	var out []ColorDecoration
	for span := range snap.Scanner().FindAllSpans(text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		token := span.In(text)
		c, seen := memo[token]
		if !seen {
			if color, ok := ExtractColor(Compile(ctx, token, snap).CSS); ok {
				c = &color
			}
			memo[token] = c
		}
		if c != nil {
			out = append(out, ColorDecoration{Span: span, Color: *c})
		}
	}
	return out, nil
}

// Recolor rewrites token so that it renders c. It reports false when the
// current compiler cannot express the change.
func (s *Service) Recolor(token string, c Color) (string, bool) {
	r, ok := s.manager.Current().Compiler.(Recolorer)
	if !ok {
		return "", false
	}
	return r.Recolor(token, c.String())
}
