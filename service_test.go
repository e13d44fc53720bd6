package classlens

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/classlens/internal/engine"
)

func newTestService(t *testing.T, d Discoverer, opts ...Option) *Service {
	t.Helper()
	m, err := NewManager(d, opts...)
	require.NoError(t, err)
	return NewService(m)
}

func TestHoverPreview(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	rule, ok, err := s.HoverPreview(ctx, "m-2 text-red-500", 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "m-2", rule.Token)
	assert.Equal(t, Span{0, 3}, rule.Span)
	assert.Contains(t, rule.CSS, "margin:0.5rem")

	rule, ok, err = s.HoverPreview(ctx, "m-2 text-red-500", 8)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, rule.CSS, "color:#ef4444")

	_, ok, err = s.HoverPreview(ctx, "m-2  p-1", 4)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.HoverPreview(ctx, "nothing-here", 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHoverPreviewOutOfRange(t *testing.T) {
	s := newTestService(t, nil)

	for _, offset := range []int{-1, 4} {
		_, _, err := s.HoverPreview(context.Background(), "m-2", offset)
		assert.ErrorIs(t, err, ErrOffsetOutOfRange)
	}
}

func TestResolve(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	first, ok := s.Resolve(ctx, "text-red-500")
	require.True(t, ok)
	assert.Contains(t, first.CSS, "color:#ef4444")

	second, ok := s.Resolve(ctx, "text-red-500")
	require.True(t, ok)
	assert.Equal(t, first, second)

	rule, ok := s.Resolve(ctx, "not-a-utility")
	assert.False(t, ok)
	assert.Empty(t, rule.CSS)

	// malformed tokens degrade to an empty rule
	rule, ok = s.Resolve(ctx, "w-[3px")
	assert.False(t, ok)
	assert.Empty(t, rule.CSS)
}

type panickingCompiler struct{}

func (panickingCompiler) Compile(context.Context, string) (string, error) {
	panic("broken compiler")
}

type failingCompiler struct{}

func (failingCompiler) Compile(context.Context, string) (string, error) {
	return "", errors.New("broken compiler")
}

func TestResolveCompilerFailures(t *testing.T) {
	for name, c := range map[string]Compiler{
		"panic": panickingCompiler{},
		"error": failingCompiler{},
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestService(t, nil, WithBuilder(func(*engine.Config) (Compiler, Enumerator, error) {
				return c, nil, nil
			}))

			rule, ok := s.Resolve(context.Background(), "m-2")
			assert.False(t, ok)
			assert.Equal(t, CompiledRule{Token: "m-2"}, rule)

			colors, err := s.ColorsIn(context.Background(), "m-2 text-red-500")
			require.NoError(t, err)
			assert.Empty(t, colors)
		})
	}
}

func TestComplete(t *testing.T) {
	s := newTestService(t, nil)

	completions, err := s.Complete(context.Background(), "m-", 2)
	require.NoError(t, err)
	require.NotEmpty(t, completions)

	for _, c := range completions {
		assert.True(t, strings.HasPrefix(c.Label, "m-"), c.Label)
		assert.Equal(t, c.Label, c.NewText)
	}
	assert.Equal(t, Span{0, 2}, completions[0].Span)
	assert.Equal(t, "Layout", completions[0].Detail)
}

func TestCompleteNothingToSuggest(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	for _, tc := range []struct {
		text   string
		offset int
	}{
		{"", 0},
		{"m-2", -1},
		{"m-2", 4},
		{"m-2 ", 4},
	} {
		completions, err := s.Complete(ctx, tc.text, tc.offset)
		require.NoError(t, err)
		assert.Empty(t, completions, "%q@%d", tc.text, tc.offset)
	}
}

func TestSuggestReplacementUsesCapturedText(t *testing.T) {
	s := newTestService(t, nil)

	text := `<div class="bg-re">`
	suggestions, err := s.Suggest(context.Background(), text, 17)
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)

	for i, sg := range suggestions {
		assert.Equal(t, i, sg.Rank)
	}

	r := suggestions[0].ResolveReplacement(suggestions[0].Token)
	assert.Equal(t, Span{12, 17}, r.Span)
	assert.Equal(t, "bg-red", r.Text)
	assert.Equal(t, `<div class="bg-red">`, text[:r.Span.Start]+r.Text+text[r.Span.End:])
}

type staticEnumerator struct {
	e Enumeration
}

func (s staticEnumerator) Enumerate(context.Context, string, int) (Enumeration, error) {
	return s.e, nil
}

func TestSuggestPreservesEnumeratorOrder(t *testing.T) {
	enum := staticEnumerator{Enumeration{
		Tokens: []engine.Candidate{{Token: "zeta"}, {Token: "alpha"}, {Token: "mid"}},
		Span:   Span{0, 1},
	}}
	s := newTestService(t, nil, WithBuilder(func(cfg *engine.Config) (Compiler, Enumerator, error) {
		g, err := engine.New(cfg)
		return g, enum, err
	}))

	suggestions, err := s.Suggest(context.Background(), "z", 1)
	require.NoError(t, err)
	var tokens []string
	for _, sg := range suggestions {
		tokens = append(tokens, sg.Token)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, tokens)
}

func TestSuggestRepairsInvalidSpan(t *testing.T) {
	enum := staticEnumerator{Enumeration{
		Tokens: []engine.Candidate{{Token: "m-2"}},
		Span:   Span{5, 99},
	}}
	s := newTestService(t, nil, WithBuilder(func(cfg *engine.Config) (Compiler, Enumerator, error) {
		g, err := engine.New(cfg)
		return g, enum, err
	}))

	suggestions, err := s.Suggest(context.Background(), "p-1 m-", 6)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, Span{4, 6}, suggestions[0].ResolveReplacement("m-2").Span)
}

func TestColorsIn(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	text := `<p class="text-red-500 m-2 bg-blue-500 text-red-500">`
	colors, err := s.ColorsIn(ctx, text)
	require.NoError(t, err)
	require.Len(t, colors, 3)

	assert.Equal(t, "text-red-500", colors[0].Span.In(text))
	assert.Equal(t, "#ef4444", colors[0].Color.String())
	assert.Equal(t, "bg-blue-500", colors[1].Span.In(text))
	assert.Equal(t, "#3b82f6", colors[1].Color.String())
	assert.Equal(t, "text-red-500", colors[2].Span.In(text))

	colors, err = s.ColorsIn(ctx, "w-4 h-4")
	require.NoError(t, err)
	assert.Empty(t, colors)
}

type countingCompiler struct {
	mu    sync.Mutex
	calls map[string]int
	inner Compiler
}

func (c *countingCompiler) Compile(ctx context.Context, token string) (string, error) {
	c.mu.Lock()
	c.calls[token]++
	c.mu.Unlock()
	return c.inner.Compile(ctx, token)
}

func TestColorsInCompilesEachTokenOnce(t *testing.T) {
	counter := &countingCompiler{calls: map[string]int{}}
	s := newTestService(t, nil, WithBuilder(func(cfg *engine.Config) (Compiler, Enumerator, error) {
		g, err := engine.New(cfg)
		counter.inner = g
		return counter, nil, err
	}))

	_, err := s.ColorsIn(context.Background(), "bg-white bg-white bg-white p-2 p-2")
	require.NoError(t, err)
	assert.Equal(t, 1, counter.calls["bg-white"])
	assert.Equal(t, 1, counter.calls["p-2"])
}

func TestColorsInCancelled(t *testing.T) {
	s := newTestService(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ColorsIn(ctx, "bg-white")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReloadIsolation(t *testing.T) {
	d := DiscovererFunc(func(context.Context, string) (*engine.Config, error) {
		return brandConfig("#ff0000"), nil
	})
	s := newTestService(t, d)
	ctx := context.Background()

	before, ok := s.Resolve(ctx, "m-2")
	require.True(t, ok)
	_, ok = s.Resolve(ctx, "text-brand")
	require.False(t, ok)

	_, err := s.Manager().Reload(ctx, "/project")
	require.NoError(t, err)

	after, ok := s.Resolve(ctx, "m-2")
	require.True(t, ok)
	assert.Equal(t, before, after)
	rule, ok := s.Resolve(ctx, "text-brand")
	require.True(t, ok)
	assert.Contains(t, rule.CSS, "#ff0000")
}

func TestFailedReloadLeavesResolveUnchanged(t *testing.T) {
	d := DiscovererFunc(func(_ context.Context, root string) (*engine.Config, error) {
		return nil, errors.New("missing " + root)
	})
	s := newTestService(t, d)
	ctx := context.Background()

	before, _ := s.Resolve(ctx, "m-2")
	_, err := s.Manager().Reload(ctx, "/nonexistent/path")
	require.Error(t, err)
	after, _ := s.Resolve(ctx, "m-2")
	assert.Equal(t, before, after)
}

func TestConcurrentRequestsDuringReload(t *testing.T) {
	d := DiscovererFunc(func(context.Context, string) (*engine.Config, error) {
		return brandConfig("#ff0000"), nil
	})
	s := newTestService(t, d)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Manager().Reload(ctx, "/project")
		}()
		go func() {
			defer wg.Done()
			rule, ok := s.Resolve(ctx, "m-2")
			assert.True(t, ok)
			assert.Contains(t, rule.CSS, "margin:0.5rem")
		}()
	}
	wg.Wait()
}

func TestRecolor(t *testing.T) {
	s := newTestService(t, nil)
	green := Color{G: 1, A: 1}

	text, ok := s.Recolor("hover:bg-red-500", green)
	require.True(t, ok)
	assert.Equal(t, "hover:bg-[#00ff00]", text)

	_, ok = s.Recolor("p-4", green)
	assert.False(t, ok)

	plain := newTestService(t, nil, WithBuilder(func(*engine.Config) (Compiler, Enumerator, error) {
		return panickingCompiler{}, nil, nil
	}))
	_, ok = plain.Recolor("bg-red-500", green)
	assert.False(t, ok)
}
