package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/matzehuels/canvaskit/pkg/errors"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    errors.Code         `json:"code"`
	Message string              `json:"message"`
	Fields  []errors.FieldError `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	respondJSON(w, statusFor(code), errorResponse{
		Code:    code,
		Message: errors.UserMessage(err),
		Fields:  errors.Fields(err),
	})
}

// statusFor maps an error code onto an HTTP status.
func statusFor(code errors.Code) int {
	switch {
	case code == errors.ErrCodeInvalidDocument:
		return http.StatusUnprocessableEntity
	case code == errors.ErrCodeNotFound || strings.HasSuffix(string(code), "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasPrefix(string(code), "INVALID_"), code == errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case code == errors.ErrCodeCancelled:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
