package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidJSON is returned when a successful response body cannot be parsed
	ErrInvalidJSON = errors.New("response is not valid JSON")

	// ErrProfileUnavailable means the backend exposes no admin profile endpoint
	ErrProfileUnavailable = errors.New("admin profile endpoint unavailable")

	// ErrMissingAccessToken is returned when a login response carries no token
	ErrMissingAccessToken = errors.New("login response did not include an access token")
)

// APIError is returned for every non-2xx response
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return e.Message
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{
		StatusCode: status,
		Message:    ErrorMessage(status, body),
		Body:       body,
	}
}

// ErrorMessage maps an error response to a message. Priority:
//  1. a non-empty string "detail" field
//  2. a non-empty string "message" field
//  3. "HTTP <status>"
//
// Non-string fields (e.g. a list of validation errors under "detail") are skipped.
func ErrorMessage(status int, body []byte) string {
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message json.RawMessage `json:"message"`
	}
	if len(body) > 0 && json.Unmarshal(body, &envelope) == nil {
		if msg := stringField(envelope.Detail); msg != "" {
			return msg
		}
		if msg := stringField(envelope.Message); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}

func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// IsUnauthorized reports whether err is a 401 from the API
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsAuthFailure reports whether err is a rejected-credentials response (400/401)
func IsAuthFailure(err error) bool {
	return hasStatus(err, http.StatusBadRequest, http.StatusUnauthorized)
}

func hasStatus(err error, statuses ...int) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, status := range statuses {
		if apiErr.StatusCode == status {
			return true
		}
	}
	return false
}
