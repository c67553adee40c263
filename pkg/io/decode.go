package io

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/canvaskit/pkg/errors"
)

// Decode parses raw bytes into a generic value for [Validate]. Objects
// become map[string]any and arrays []any whatever the input format.
// Malformed input yields a single INVALID_JSON error.
func Decode(data []byte, format Format) (any, error) {
	var raw any
	switch format {
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidJSON, err, "file is not valid JSON")
		}
		if dec.More() {
			return nil, errors.New(errors.ErrCodeInvalidJSON, "file is not valid JSON: trailing data after document")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidJSON, err, "file is not valid YAML")
		}
		raw = normalize(raw)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "cannot import %q documents", format)
	}
	return raw, nil
}

// normalize rewrites YAML's map[any]any into map[string]any.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	}
	return v
}

// toDocument converts a validated generic value into a Document.
func toDocument(raw any) (Document, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInternal, err, "re-encode document")
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document")
	}
	return doc, nil
}

// DecodeDocument decodes and validates data, returning the typed document.
// Validation failures are returned as [errors.ValidationErrors].
func DecodeDocument(data []byte, format Format) (Document, error) {
	raw, err := Decode(data, format)
	if err != nil {
		return Document{}, err
	}
	if errs := Validate(raw); len(errs) > 0 {
		return Document{}, errs
	}
	return toDocument(raw)
}
