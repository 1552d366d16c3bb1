package backend

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured = errors.New("backend url is not configured")
	ErrUnavailable   = errors.New("backend unavailable")
	ErrBadResponse   = errors.New("backend returned an unreadable response")
)

// APIError is a well formed response with success=false.
type APIError struct {
	Method  string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s failed", e.Method)
	}
	return fmt.Sprintf("%s: %s", e.Method, e.Message)
}

// Message returns the backend message, or fallback when it sent none.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
