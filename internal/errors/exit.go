package errors

import "errors"

// Exit codes returned by the tblx-ui binary.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error, an unreadable manifest,
	// or a failed file copy.
	ExitGeneralError = 1

	// ExitValidationError indicates a malformed manifest or invalid config.
	ExitValidationError = 2

	// ExitNotFound indicates a component or config file was not found.
	ExitNotFound = 5
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int

	// Printed is set when the command layer already reported the error, so
	// main only needs to exit.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return ExitCodeName(e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitValidationError:
		return "Validation Error"
	case ExitNotFound:
		return "Not Found"
	default:
		return "Unknown"
	}
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrManifestMalformed), errors.Is(err, ErrValidation):
		return ExitValidationError
	case errors.Is(err, ErrComponentNotFound), errors.Is(err, ErrNotFound):
		return ExitNotFound
	default:
		return ExitGeneralError
	}
}
