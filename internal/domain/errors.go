package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Standard application-level errors. Repositories wrap driver errors with
// these so callers can branch without importing gorm.
var (
	// ErrNotFound covers both a genuinely missing record and an ownership
	// mismatch, so responses never reveal whether a trade exists under
	// another user.
	ErrNotFound = errors.New("record not found")

	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or PIN")
	ErrUnauthorized       = errors.New("unauthorized")
)

// FieldError reports a single invalid or missing input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError aggregates field-level problems found before any
// persistence call is made.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err returns nil when no fields were flagged, making the collector usable
// as a return value directly.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	var fe FieldError
	return errors.As(err, &fe)
}
