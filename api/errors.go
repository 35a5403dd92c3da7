package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/traveline-backoffice/internal/errors"
)

// Error is a non-2xx response from the backend.
type Error struct {
	Status  int
	Message string
	Body    []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return errors.ErrUnauthorized
	case http.StatusForbidden:
		return errors.ErrForbidden
	case http.StatusNotFound:
		return errors.ErrNotFound
	}
	return errors.ErrBackend
}

// TransportError means no response was received at all, so there is no status.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("api: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError is a 2xx response whose body did not match the expected shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("api: invalid response from %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{errors.ErrInvalidResponse, e.Err}
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an *Error.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// errorBody is the backend's error envelope; message may be a string or a
// list of validation messages.
type errorBody struct {
	Message json.RawMessage `json:"message"`
}

func newError(status int, body []byte) *Error {
	return &Error{Status: status, Message: extractMessage(status, body), Body: body}
}

func extractMessage(status int, body []byte) string {
	fallback := fmt.Sprintf("request failed with status %d", status)

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Message) == 0 {
		return fallback
	}

	var single string
	if err := json.Unmarshal(eb.Message, &single); err == nil {
		if single = strings.TrimSpace(single); single != "" {
			return single
		}
		return fallback
	}

	var many []string
	if err := json.Unmarshal(eb.Message, &many); err == nil {
		parts := make([]string, 0, len(many))
		for _, m := range many {
			if m = strings.TrimSpace(m); m != "" {
				parts = append(parts, m)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	return fallback
}
