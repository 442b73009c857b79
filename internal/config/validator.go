package config

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Validate checks field values of a loaded config. Unset fields are valid.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Registry != "" {
		if strings.TrimSpace(cfg.Registry) == "" {
			errs = append(errs, ValidationError{Field: "registry", Message: "must not be empty or whitespace only"})
		} else {
			switch strings.ToLower(filepath.Ext(cfg.Registry)) {
			case ".json", ".yaml", ".yml":
			default:
				errs = append(errs, ValidationError{Field: "registry", Message: "must be a .json, .yaml, or .yml manifest"})
			}
		}
	}

	if cfg.Dir != "" && strings.TrimSpace(cfg.Dir) == "" {
		errs = append(errs, ValidationError{Field: "dir", Message: "must not be empty or whitespace only"})
	}

	if cfg.Prefix != "" {
		p := filepath.ToSlash(cfg.Prefix)
		switch {
		case path.IsAbs(p):
			errs = append(errs, ValidationError{Field: "prefix", Message: "must be a relative path segment"})
		case p == ".." || strings.HasPrefix(p, "../") || strings.Contains(p, "/../"):
			errs = append(errs, ValidationError{Field: "prefix", Message: "must not contain '..'"})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
