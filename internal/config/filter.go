package config

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PathFilter decides which relative paths appear in the selection tree.
type PathFilter interface {
	// ShouldShow returns true if the entry at the given relative path should
	// be offered for selection.
	ShouldShow(relativePath string) bool
}

// ExcludeFilter hides entries matching any of its glob patterns.
// Matching is case-insensitive; an empty pattern list shows everything.
// The filter is presentation-only: it never changes what an already-saved
// selection copies.
type ExcludeFilter struct {
	patterns []string
}

// NewExcludeFilter creates a filter from glob patterns (doublestar syntax).
func NewExcludeFilter(patterns []string) *ExcludeFilter {
	normalized := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		normalized = append(normalized, strings.ToLower(pattern))
	}

	return &ExcludeFilter{patterns: normalized}
}

// ShouldShow returns false for paths matching any exclude pattern.
func (f *ExcludeFilter) ShouldShow(relativePath string) bool {
	normalizedPath := strings.ToLower(strings.TrimSuffix(relativePath, DirSuffix))

	for _, pattern := range f.patterns {
		matched, err := doublestar.Match(pattern, normalizedPath)
		if err != nil {
			// Invalid pattern, ignore it
			continue
		}

		if matched {
			return false
		}

		// Also match the bare file name so "*.log" hides logs at any depth.
		matched, err = doublestar.Match(pattern, baseName(normalizedPath))
		if err == nil && matched {
			return false
		}
	}

	return true
}

// baseName returns the final path segment of a slash-separated relative path.
func baseName(rel string) string {
	if idx := strings.LastIndex(rel, "/"); idx >= 0 {
		return rel[idx+1:]
	}

	return rel
}
