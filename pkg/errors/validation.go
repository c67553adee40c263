package errors

import (
	"strings"
	"unicode"
)

// ValidateDiagramName validates a diagram name used as a storage key.
// It rejects names that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateDiagramName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "diagram name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "diagram name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "diagram name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "diagram name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// maxIDLength bounds node, group and edge identifiers.
const maxIDLength = 256

// ValidateID checks an identifier named on the command line or chosen for a
// new group. Imported documents may use any non-empty string, so only what
// can never be intended is rejected: empty or oversized identifiers,
// control characters and surrounding whitespace.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "identifier too long (max %d characters)", maxIDLength)
	}
	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidInput, "identifier %q has surrounding whitespace", id)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "identifier %q contains control characters", id)
		}
	}
	return nil
}
