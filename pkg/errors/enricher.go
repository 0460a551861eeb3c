package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Enricher enriches standard errors with a category and actionable suggestions.
type Enricher interface {
	Enrich(err error, affectedPath string) error
}

// NewEnricher creates a new Enricher with the default category patterns.
func NewEnricher() Enricher {
	return &enricher{}
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Compiled regexes shared across all enricher instances
	pathExtractionPatterns = []*regexp.Regexp{
		// Unix/Linux paths (absolute and relative)
		regexp.MustCompile(`\b\w+\s+([./][^\s:]+):`),
		// Windows paths with backslashes
		regexp.MustCompile(`\b\w+\s+([A-Za-z]:\\[^\s:]+):`),
		// Windows paths with forward slashes
		regexp.MustCompile(`\b\w+\s+([A-Za-z]:/[^\s:]+):`),
	}

	//nolint:gochecknoglobals // Static category patterns, matched in order
	categoryPatterns = []struct {
		category ErrorCategory
		patterns []string
	}{
		{CategoryPermission, []string{"permission denied", "access denied", "operation not permitted"}},
		{CategoryDiskSpace, []string{"no space left on device", "disk full", "quota exceeded"}},
		{CategoryPath, []string{"no such file or directory", "file not found", "path does not exist"}},
		{CategoryDelete, []string{"directory not empty", "cannot remove"}},
		{CategoryCopy, []string{"short write", "input/output error", "i/o error"}},
	}
)

// enricher is the concrete implementation of Enricher.
type enricher struct{}

// Enrich takes a standard error and attaches a category and suggestions.
// If the error is already an ActionableError it is returned unchanged. If
// affectedPath is empty, a path is extracted from the error message when the
// message follows the usual Go "op /path: cause" shape.
func (e *enricher) Enrich(err error, affectedPath string) error {
	var actionableErr ActionableError
	if errors.As(err, &actionableErr) {
		return actionableErr
	}

	errMsg := err.Error()

	if affectedPath == "" {
		affectedPath = extractPath(errMsg)
	}

	category := classify(errMsg)

	return NewActionableError(errMsg, category, suggestionsFor(category, affectedPath), affectedPath)
}

// classify maps an error message to a category by substring match.
func classify(errMsg string) ErrorCategory {
	lowered := strings.ToLower(errMsg)

	for _, entry := range categoryPatterns {
		for _, pattern := range entry.patterns {
			if strings.Contains(lowered, pattern) {
				return entry.category
			}
		}
	}

	return CategoryUnknown
}

// extractPath attempts to extract a file path from common Go error message
// formats like "open /path/to/file: permission denied". Returns an empty
// string if no path is found.
func extractPath(errorMsg string) string {
	for _, pattern := range pathExtractionPatterns {
		if matches := pattern.FindStringSubmatch(errorMsg); len(matches) > 1 {
			path := strings.TrimSpace(matches[1])
			if path != "" {
				return path
			}
		}
	}

	return ""
}

// suggestionsFor returns user-facing suggestions for the given category.
func suggestionsFor(category ErrorCategory, path string) []string {
	switch category {
	case CategoryPermission:
		suggestions := []string{
			"Check that the game directory and save slots are writable by your user",
			"Make sure the game is not running and holding files open",
		}
		if path != "" {
			suggestions = append(suggestions, fmt.Sprintf("Inspect permissions with 'ls -la %s'", path))
		}

		return suggestions

	case CategoryDiskSpace:
		return []string{
			"Free up disk space on the drive holding the save slots",
			"Delete save slots you no longer need",
		}

	case CategoryPath:
		suggestions := []string{
			"The configured selection may reference files the game no longer writes",
			"Re-open the Configuration tab and save an updated selection",
		}
		if path != "" {
			suggestions = append(suggestions, fmt.Sprintf("Verify that %s still exists", path))
		}

		return suggestions

	case CategoryDelete:
		return []string{
			"Close any program that may be using files inside the save slot",
			"Retry the delete once the game has fully exited",
		}

	case CategoryCopy:
		return []string{
			"Check if there is sufficient disk space on the destination",
			"Try the operation again - this may be a transient I/O error",
		}

	case CategoryUnknown:
		return []string{
			"Check the application log for details",
			"Try the operation again",
		}

	default:
		return nil
	}
}
