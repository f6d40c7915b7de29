package pagination

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrValidation classifies inputs derived from a request that fall outside their domain.
	ErrValidation = errors.New("pagination: invalid input")
	// ErrConfiguration classifies impossible settings such as a zero page size.
	ErrConfiguration = errors.New("pagination: invalid configuration")
)

// ValidationError describes a rejected request value.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("pagination: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConfigurationError describes a rejected setting.
type ConfigurationError struct {
	Field  string
	Value  int
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("pagination: invalid %s %d: %s", e.Field, e.Value, e.Reason)
}

// Unwrap allows errors.Is(err, ErrConfiguration).
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewValidationError builds a ValidationError for an integer field.
func NewValidationError(field string, value int, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: strconv.Itoa(value), Reason: reason}
}

// NewConfigurationError builds a ConfigurationError.
func NewConfigurationError(field string, value int, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}
