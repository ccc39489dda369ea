package shared

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates the entity or file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates a tenant mismatch or a missing capability.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict indicates a business-rule guard rejected the operation.
	ErrConflict = errors.New("conflict")
	// ErrUpload indicates the file store failed while writing an upload.
	ErrUpload = errors.New("upload failed")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// ValidationError reports malformed input field by field so forms can be
// re-rendered with the offending values highlighted.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records an additional field error.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

// UserSafeMessage returns a message suitable for display to the caller.
// Unexpected errors collapse to a generic message so internals never leak.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrUpload),
		errors.Is(err, ErrInvalidCredentials):
		return err.Error()
	default:
		return "something went wrong, please try again"
	}
}
