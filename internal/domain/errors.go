package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies generation failures.
type ErrorKind string

const (
	// KindSourceUnavailable means content fetch failed or returned nothing.
	KindSourceUnavailable ErrorKind = "source_unavailable"
	// KindGenerationFailed means provider call failed or returned an unusable payload.
	KindGenerationFailed ErrorKind = "generation_failed"
	// KindConfigurationMissing means a required credential is not configured.
	KindConfigurationMissing ErrorKind = "configuration_missing"
	// KindValidationFailed means caller-supplied category or constraints are invalid.
	KindValidationFailed ErrorKind = "validation_failed"
)

// Error is the typed error surfaced to every delivery layer.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError creates a typed error of the given kind.
func NewError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when there is none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// MissingConfig reports the absent credential names.
func MissingConfig(names ...string) *Error {
	return &Error{Kind: KindConfigurationMissing, Message: fmt.Sprintf("missing %v", names)}
}
