package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used throughout lazysheet
var (
	ErrNoDataSource    = errors.New("no data source configured")
	ErrUnsupportedKind = errors.New("unsupported data source kind")
	ErrPresetNotFound  = errors.New("preset not found")
)

// Error is a structured error with context and suggestions
type Error struct {
	Title       string   // Short error title
	Message     string   // Detailed message
	Context     string   // What was being attempted
	Causes      []string // Possible causes
	Suggestions []string // Actionable suggestions
	Err         error    // Wrapped error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Title, e.Err)
	}
	return e.Title
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Format returns a multi-line rendering suitable for a terminal
func (e *Error) Format() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", e.Title))

	if e.Message != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Message))
	}
	if e.Context != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Context))
	}
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf("\n  Cause: %v\n", e.Err))
	}

	if len(e.Causes) > 0 {
		sb.WriteString("\n  Possible causes:\n")
		for _, cause := range e.Causes {
			sb.WriteString(fmt.Sprintf("    • %s\n", cause))
		}
	}

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n  Try:\n")
		for _, sug := range e.Suggestions {
			sb.WriteString(fmt.Sprintf("    $ %s\n", sug))
		}
	}

	return sb.String()
}

// NewError creates a new Error
func NewError(title string) *Error {
	return &Error{Title: title}
}

// WithMessage adds a detailed message
func (e *Error) WithMessage(msg string) *Error {
	e.Message = msg
	return e
}

// WithContext adds context about what was being attempted
func (e *Error) WithContext(ctx string) *Error {
	e.Context = ctx
	return e
}

// WithCauses adds possible causes
func (e *Error) WithCauses(causes ...string) *Error {
	e.Causes = append(e.Causes, causes...)
	return e
}

// WithSuggestions adds actionable suggestions
func (e *Error) WithSuggestions(sugs ...string) *Error {
	e.Suggestions = append(e.Suggestions, sugs...)
	return e
}

// Wrap wraps an underlying error
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// AsError extracts a structured error from err's chain
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
