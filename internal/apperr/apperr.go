// Package apperr defines the error taxonomy shared by the API surface.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a lookup for a document that does not exist or is not
// owned by the caller. Routes map it to 404, distinct from store failures.
var ErrNotFound = errors.New("not found")

// ValidationError rejects a request before any I/O is performed.
// It is never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// OracleError wraps a failure of an external AI oracle (extraction or
// embedding). Retryable by the caller; some paths recover with a fallback.
type OracleError struct {
	Op  string // "extract" or "embed"
	Err error
}

func (e *OracleError) Error() string { return fmt.Sprintf("oracle %s: %v", e.Op, e.Err) }

func (e *OracleError) Unwrap() error { return e.Err }

// IsOracle reports whether err is (or wraps) an OracleError.
func IsOracle(err error) bool {
	var oe *OracleError
	return errors.As(err, &oe)
}
