package errors

import (
	"fmt"
	"strings"
)

// ManifestUnreadableError is returned when the manifest location does not
// exist or cannot be read.
type ManifestUnreadableError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *ManifestUnreadableError) Error() string {
	return fmt.Sprintf("reading manifest %s: %v", e.Path, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying I/O error.
func (e *ManifestUnreadableError) Unwrap() []error {
	return []error{ErrManifestUnreadable, e.Cause}
}

// ManifestMalformedError is returned when the manifest content does not parse
// as a component registry.
type ManifestMalformedError struct {
	Path string
	// Details is the multi-line decoder or schema output, if any.
	Details string
	Cause   error
}

// Error implements the error interface.
func (e *ManifestMalformedError) Error() string {
	return fmt.Sprintf("parsing manifest %s: %v", e.Path, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying decode error.
func (e *ManifestMalformedError) Unwrap() []error {
	return []error{ErrManifestMalformed, e.Cause}
}

// ComponentNotFoundError is returned when a requested component, or one of its
// transitive dependencies, is absent from the catalog.
type ComponentNotFoundError struct {
	// Name is the missing component.
	Name string

	// RequiredBy is the component whose dependency list named Name.
	// Empty when Name was the top-level request.
	RequiredBy string

	// Available is the full set of component names in the catalog.
	Available []string
}

// Error implements the error interface.
func (e *ComponentNotFoundError) Error() string {
	if e.RequiredBy != "" {
		return fmt.Sprintf("component %q (required by %q) not found in registry", e.Name, e.RequiredBy)
	}
	return fmt.Sprintf("component %q not found in registry", e.Name)
}

// Unwrap returns ErrComponentNotFound.
func (e *ComponentNotFoundError) Unwrap() error {
	return ErrComponentNotFound
}

// Hint returns a one-line corrective listing of valid names.
func (e *ComponentNotFoundError) Hint() string {
	if len(e.Available) == 0 {
		return "the registry has no components"
	}
	return "available components: " + strings.Join(e.Available, ", ")
}

// InstallFailedError is returned when copying a single file fails.
type InstallFailedError struct {
	Source string
	Dest   string
	Cause  error
}

// Error implements the error interface.
func (e *InstallFailedError) Error() string {
	return fmt.Sprintf("copying %s to %s: %v", e.Source, e.Dest, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying filesystem error.
func (e *InstallFailedError) Unwrap() []error {
	return []error{ErrInstallFailed, e.Cause}
}
