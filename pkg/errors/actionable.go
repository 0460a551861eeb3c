// Package errors provides actionable error handling with context-aware
// suggestions for failed backup, restore, and delete operations.
//
// Standard errors coming out of the filesystem layer are enriched with a
// category and a short list of suggestions the user can act on, which the TUI
// renders beneath the error message.
package errors

import "strings"

// Exported constants.
const (
	CategoryCopy       ErrorCategory = "copy"
	CategoryDelete     ErrorCategory = "delete"
	CategoryDiskSpace  ErrorCategory = "disk_space"
	CategoryPath       ErrorCategory = "path"
	CategoryPermission ErrorCategory = "permission"
	CategoryUnknown    ErrorCategory = "unknown"
)

// ActionableError represents an error with actionable suggestions for the user.
type ActionableError interface {
	error
	Category() ErrorCategory
	Suggestions() []string
	AffectedPath() string
}

// ErrorCategory represents the type of error that occurred.
type ErrorCategory string

// NewActionableError creates a new ActionableError with the given details.
func NewActionableError(message string, category ErrorCategory, suggestions []string, affectedPath string) ActionableError {
	return &actionableError{
		message:      message,
		category:     category,
		suggestions:  suggestions,
		affectedPath: affectedPath,
	}
}

// FormatSuggestions formats the suggestions from an ActionableError as a
// bulleted list for display. Returns an empty string if the error is nil,
// not actionable, or has no suggestions.
func FormatSuggestions(err error) string {
	if err == nil {
		return ""
	}

	actionable, ok := err.(ActionableError)
	if !ok {
		return ""
	}

	suggestions := actionable.Suggestions()
	if len(suggestions) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, suggestion := range suggestions {
		if i > 0 {
			builder.WriteString("\n")
		}

		builder.WriteString("  • ")
		builder.WriteString(suggestion)
	}

	return builder.String()
}

// actionableError is the concrete implementation of ActionableError.
type actionableError struct {
	message      string
	category     ErrorCategory
	suggestions  []string
	affectedPath string
}

// AffectedPath returns the file path affected by this error.
func (e *actionableError) AffectedPath() string {
	return e.affectedPath
}

// Category returns the error category.
func (e *actionableError) Category() ErrorCategory {
	return e.category
}

// Error implements the error interface.
func (e *actionableError) Error() string {
	return e.message
}

// Suggestions returns the list of actionable suggestions.
func (e *actionableError) Suggestions() []string {
	return e.suggestions
}
