package discovery

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ConfigFiles are the configuration file names searched for, in order of
// preference.
var ConfigFiles = []string{
	"classlens.yaml",
	".classlens.yaml",
	"classlens.yml",
	".classlens.yml",
}

var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// NormalizeRoot turns a workspace path or file:// URI into a clean absolute
// directory path.
func NormalizeRoot(root string) (string, error) {
	if strings.HasPrefix(root, "file:") {
		u, err := url.Parse(root)
		if err != nil {
			return "", fmt.Errorf("parse root uri %q: %w", root, err)
		}
		root = u.Path
		if root == "" {
			root = u.Opaque
		}
	}
	if root == "" {
		return "", fmt.Errorf("empty root directory")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

// FindConfig searches startDir and its parents for a configuration file.
// The search stops at a VCS root or the filesystem root. It returns "" when
// no file exists.
func FindConfig(ctx context.Context, startDir string) (string, error) {
	dir := startDir
	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}

		for _, name := range ConfigFiles {
			path := filepath.Join(dir, name)
			if fileExists(path) {
				return path, nil
			}
		}

		if isVCSRoot(dir) {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		info, err := os.Stat(filepath.Join(dir, marker))
		if err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
