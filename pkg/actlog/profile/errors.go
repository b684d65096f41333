package profile

import "fmt"

// ValidationError is a problem with a top-level field of a profile.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// RuleError is a problem with one status color rule.
type RuleError struct {
	Index   int // 0-based index in status_colors
	Field   string
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("status_colors[%d]: %s: %s", e.Index, e.Field, e.Message)
}
