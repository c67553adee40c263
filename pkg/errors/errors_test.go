package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Wrap(ErrCodeInvalidJSON, cause, "read diagram.json")

	if err.Code != ErrCodeInvalidJSON {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidJSON)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeNodeNotFound, "test"),
			code:     ErrCodeNodeNotFound,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeNodeNotFound, "test"),
			code:     ErrCodeGroupNotFound,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("apply: %w", New(ErrCodeGroupNotFound, "inner")),
			code:     ErrCodeGroupNotFound,
			expected: true,
		},
		{
			name:     "validation list",
			err:      ValidationErrors{{Field: "version", Message: "is required"}},
			code:     ErrCodeInvalidDocument,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "empty code never matches",
			err:      errors.New("plain error"),
			code:     "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidFormat, "test"), ErrCodeInvalidFormat},
		{"validation list", ValidationErrors{{Field: "nodes", Message: "must be an array"}}, ErrCodeInvalidDocument},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "single field error",
			err:      ValidationErrors{{Field: "version", Message: "is required"}},
			expected: "invalid document: version: is required",
		},
		{
			name: "several field errors",
			err: ValidationErrors{
				{Field: "version", Message: "is required"},
				{Field: "nodes", Message: "must be an array"},
			},
			expected: "invalid document: 2 problems (first: version: is required)",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Error("empty list should convert to a nil error")
	}

	errs.Add("nodes[0].id", "is required")
	errs.Add("edges", "must be an array")
	errs.Add("edges[1].source", "must be a %s", "string")

	if len(errs) != 3 {
		t.Fatalf("len = %d, want 3", len(errs))
	}
	if errs[2].Message != "must be a string" {
		t.Errorf("Message = %q, want formatted message", errs[2].Message)
	}

	err := errs.Err()
	if err == nil {
		t.Fatal("non-empty list should convert to an error")
	}
	if got := Fields(fmt.Errorf("import: %w", err)); len(got) != 3 {
		t.Errorf("Fields() through wrapping = %d entries, want 3", len(got))
	}
	if Fields(errors.New("plain")) != nil {
		t.Error("Fields() of a plain error should be nil")
	}

	want := "INVALID_DOCUMENT: nodes[0].id: is required; edges: must be an array; edges[1].source: must be a string"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
