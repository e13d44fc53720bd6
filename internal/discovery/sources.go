package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// SourceStats counts the stylesheet files an include list matched.
type SourceStats struct {
	FilesDiscovered int // matched by the globs
	FilesParsed     int // kept after filtering
	FilesSkipped    int // excluded by .gitignore
}

// loadGitIgnore compiles root/.gitignore. A missing file yields nil.
func loadGitIgnore(root string) (*ignore.GitIgnore, string) {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, ""
	}
	return gi, path
}

// expandIncludes resolves include globs relative to root. Matches are
// deduplicated, sorted, and filtered through gi.
func expandIncludes(root string, patterns []string, gi *ignore.GitIgnore) ([]string, SourceStats, error) {
	var files []string
	seen := make(map[string]bool)
	stats := SourceStats{}

	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, stats, fmt.Errorf("css.include %q: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			seen[match] = true
			stats.FilesDiscovered++

			if shouldSkipFile(root, match, gi) {
				stats.FilesSkipped++
				continue
			}
			files = append(files, match)
			stats.FilesParsed++
		}
	}

	sort.Strings(files)
	return files, stats, nil
}

// shouldSkipFile reports whether path is gitignored. Only paths inside root
// are checked against the project's .gitignore.
func shouldSkipFile(root, path string, gi *ignore.GitIgnore) bool {
	if gi == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return gi.MatchesPath(filepath.ToSlash(rel))
}
