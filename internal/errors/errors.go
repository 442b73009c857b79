// Package errors provides sentinel errors, structured error types, and exit
// codes for the tblx-ui CLI.
package errors

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates a configuration or schema validation failure.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a file, component, or config was not found.
	ErrNotFound = errors.New("not found")

	// ErrManifestUnreadable indicates the registry manifest is missing or inaccessible.
	ErrManifestUnreadable = errors.New("manifest unreadable")

	// ErrManifestMalformed indicates the registry manifest does not match the expected shape.
	ErrManifestMalformed = errors.New("manifest malformed")

	// ErrComponentNotFound indicates a requested or required component is absent from the catalog.
	ErrComponentNotFound = errors.New("component not found")

	// ErrInstallFailed indicates a single file copy failed during installation.
	ErrInstallFailed = errors.New("install failed")
)

// DetailError captures structured error information for user-facing output.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file path (optional).
	Location string

	// Field is the field name for schema errors (optional).
	Field string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}

	// Sorted so the rendering is stable.
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Context[k])
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}
