package classlens

import "context"

// Suggestion is a ranked completion candidate for one request.
type Suggestion struct {
	Token  string
	Rank   int    // position in enumerator order
	Detail string // property category of the generated CSS

	span Span
}

// Replacement is a concrete edit: replace Span of the original text with Text.
type Replacement struct {
	Span Span
	Text string
}

// ResolveReplacement returns the edit that inserts token. The span refers to
// the text the suggestion was computed from, so it stays valid after the live
// document changes.
func (s Suggestion) ResolveReplacement(token string) Replacement {
	return Replacement{Span: s.span, Text: token}
}

// suggest enumerates candidates against snap. Enumerator order is kept.
func suggest(ctx context.Context, snap *Snapshot, text string, offset int) ([]Suggestion, error) {
	if text == "" || offset < 0 || offset > len(text) || snap.Enumerator == nil {
		return nil, nil
	}

	e, err := snap.Enumerator.Enumerate(ctx, text, offset)
	if err != nil {
		return nil, err
	}
	if len(e.Tokens) == 0 {
		return nil, nil
	}

	span := e.Span
	if span.Start < 0 || span.End > len(text) || span.Start > span.End || !span.Contains(offset) {
		span = snap.Scanner().FindUsageSpan(text, offset)
	}

	out := make([]Suggestion, 0, len(e.Tokens))
	for i, c := range e.Tokens {
		out = append(out, Suggestion{
			Token:  c.Token,
			Rank:   i,
			Detail: string(c.Category),
			span:   span,
		})
	}
	return out, nil
}
