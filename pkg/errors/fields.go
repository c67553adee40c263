package errors

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError names one offending field of a structured input.
// Field uses a dotted path with array indices, e.g. "nodes[2].data.label".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationErrors is an exhaustive list of field errors.
// A nil or empty list means the input passed validation.
type ValidationErrors []FieldError

// Error implements the error interface, listing every field error.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "no validation errors"
	}
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Error()
	}
	return fmt.Sprintf("%s: %s", ErrCodeInvalidDocument, strings.Join(parts, "; "))
}

// Summary returns a one-line description suitable for a status bar.
func (v ValidationErrors) Summary() string {
	switch len(v) {
	case 0:
		return "document is valid"
	case 1:
		return "invalid document: " + v[0].Error()
	default:
		return fmt.Sprintf("invalid document: %d problems (first: %s)", len(v), v[0].Error())
	}
}

// Add appends a field error with a formatted message.
func (v *ValidationErrors) Add(field, format string, args ...any) {
	*v = append(*v, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err returns v as an error, or nil when v is empty.
// This avoids the typed-nil interface trap when returning the list.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Fields extracts the field errors from err, if it carries any.
func Fields(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
