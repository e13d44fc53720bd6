package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProject creates a temporary repository root containing files.
func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

const fullConfig = `theme:
  colors:
    brand: "#ff0000"
    primary:
      DEFAULT: "#0000ff"
      "500": "#3b82f6"
  breakpoints:
    tablet: 900px
shortcuts:
  btn: px-4 py-2 rounded
rules:
  - name: glow
    css:
      box-shadow: 0 0 4px red
  - match: icon-(\d+)
    css:
      width: $1px
safelist:
  - legacy-class
css:
  include:
    - "styles/**/*.css"
autocomplete:
  max-items: 25
`

func TestDiscoverDefaults(t *testing.T) {
	root := newProject(t, nil)

	cfg, err := Discover(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, cfg.File)
	assert.Empty(t, cfg.Sources)
	assert.Empty(t, cfg.Colors)
	assert.Equal(t, 100, cfg.MaxItems)
}

func TestDiscoverFullConfig(t *testing.T) {
	root := newProject(t, map[string]string{
		"classlens.yaml":           fullConfig,
		".gitignore":               "styles/generated/\n",
		"styles/components.css":    ".card { padding: 1rem; }\n.card:hover { padding: 2rem; }",
		"styles/generated/out.css": ".ignored { color: red; }",
	})

	cfg, err := Discover(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "classlens.yaml"), cfg.File)
	assert.Equal(t, map[string]string{
		"brand":       "#ff0000",
		"primary":     "#0000ff",
		"primary-500": "#3b82f6",
	}, cfg.Colors)
	assert.Equal(t, "900px", cfg.Breakpoints["tablet"])
	assert.Equal(t, "px-4 py-2 rounded", cfg.Shortcuts["btn"])
	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, "glow", cfg.Rules[0].Name)
	assert.Equal(t, `icon-(\d+)`, cfg.Rules[1].Match)
	assert.Equal(t, "$1px", cfg.Rules[1].CSS["width"])
	assert.Equal(t, []string{"legacy-class"}, cfg.Safelist)
	assert.Equal(t, 25, cfg.MaxItems)

	require.Len(t, cfg.Classes, 1)
	assert.Equal(t, "card", cfg.Classes[0].Name)
	assert.Equal(t, "1rem", cfg.Classes[0].Properties["padding"])

	assert.Equal(t, []string{
		filepath.Join(root, "classlens.yaml"),
		filepath.Join(root, ".gitignore"),
		filepath.Join(root, "styles", "components.css"),
	}, cfg.Sources)
}

func TestDiscoverSearchesUpward(t *testing.T) {
	root := newProject(t, map[string]string{
		".classlens.yml": "shortcuts:\n  btn: p-2\n",
		"web/src/.keep":  "",
	})

	cfg, err := Discover(context.Background(), filepath.Join(root, "web", "src"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".classlens.yml"), cfg.File)
	assert.Equal(t, "p-2", cfg.Shortcuts["btn"])
}

func TestDiscoverStopsAtVCSRoot(t *testing.T) {
	root := newProject(t, map[string]string{
		"classlens.yaml":     "shortcuts:\n  btn: p-2\n",
		"nested/.git/HEAD":   "ref: refs/heads/main\n",
		"nested/src/app.css": "",
	})

	cfg, err := Discover(context.Background(), filepath.Join(root, "nested", "src"))
	require.NoError(t, err)
	assert.Empty(t, cfg.File)
}

func TestDiscoverFileURI(t *testing.T) {
	root := newProject(t, map[string]string{"classlens.yaml": "shortcuts:\n  btn: p-2\n"})

	cfg, err := Discover(context.Background(), "file://"+filepath.ToSlash(root))
	require.NoError(t, err)
	assert.Equal(t, "p-2", cfg.Shortcuts["btn"])
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := Discover(context.Background(), "/nonexistent/path")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWithConfigFile(t *testing.T) {
	root := newProject(t, map[string]string{
		"classlens.yaml":       "shortcuts:\n  btn: px-4\n",
		"config/explicit.yaml": "shortcuts:\n  card: p-4\n",
	})
	explicit := filepath.Join(root, "config", "explicit.yaml")

	cfg, err := WithConfigFile(explicit)(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, explicit, cfg.File)
	assert.Equal(t, map[string]string{"card": "p-4"}, cfg.Shortcuts)

	_, err = WithConfigFile(filepath.Join(root, "missing.yaml"))(context.Background(), root)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscoverInvalid(t *testing.T) {
	tests := []struct {
		name   string
		config string
		field  string
	}{
		{"bad color", "theme:\n  colors:\n    brand: notacolor\n", "theme.colors.brand"},
		{"bad breakpoint", "theme:\n  breakpoints:\n    tablet: wide\n", "theme.breakpoints.tablet"},
		{"bad pattern", "rules:\n  - match: \"icon-(\"\n    css:\n      width: 1px\n", "rules[0].match"},
		{"rule without css", "rules:\n  - name: empty\n", "rules[0].css"},
		{"negative max items", "autocomplete:\n  max-items: -1\n", "autocomplete.max-items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newProject(t, map[string]string{"classlens.yaml": tt.config})

			_, err := Discover(context.Background(), root)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, filepath.Join(root, "classlens.yaml"), verr.FilePath)
		})
	}
}

func TestDiscoverMalformedYAML(t *testing.T) {
	root := newProject(t, map[string]string{"classlens.yaml": "theme: [unclosed\n"})

	_, err := Discover(context.Background(), root)
	assert.Error(t, err)
}

func TestDiscoverEnvOverrides(t *testing.T) {
	t.Setenv("CLASSLENS_AUTOCOMPLETE_MAX_ITEMS", "7")
	t.Setenv("CLASSLENS_SAFELIST", "a b")
	root := newProject(t, map[string]string{"classlens.yaml": "autocomplete:\n  max-items: 25\n"})

	cfg, err := Discover(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxItems)
	assert.Equal(t, []string{"a", "b"}, cfg.Safelist)
}

func TestDiscoverCancelled(t *testing.T) {
	root := newProject(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Discover(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "autocomplete.max-items", EnvKey("CLASSLENS_AUTOCOMPLETE_MAX_ITEMS"))
	assert.Equal(t, "css.include", EnvKey("CLASSLENS_CSS_INCLUDE"))
	assert.Equal(t, "server.log-level", EnvKey("CLASSLENS_SERVER_LOG_LEVEL"))
	assert.Equal(t, "safelist", EnvKey("CLASSLENS_SAFELIST"))
}

func TestNormalizeRoot(t *testing.T) {
	got, err := NormalizeRoot("file:///tmp/my%20project")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/my project", filepath.ToSlash(got))

	_, err = NormalizeRoot("")
	assert.Error(t, err)
}
