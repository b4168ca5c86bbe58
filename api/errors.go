// ABOUTME: Typed API error with HTTP status and server-provided message
// ABOUTME: Parses common error body shapes so callers get a readable string
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error is returned for any non-2xx response.
type Error struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s: %s (status %d)", e.Path, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api: %s: status %d", e.Path, e.StatusCode)
}

// IsNotFound reports whether err is an API error with a 404 status.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// newError builds an Error from a failed response, pulling a message out of
// the body when the server provides one.
func newError(path string, resp *http.Response) *Error {
	apiErr := &Error{
		StatusCode: resp.StatusCode,
		Path:       path,
	}

	// Backends disagree on the error body shape too.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			apiErr.Message = payload.Message
		case payload.Error != "":
			apiErr.Message = payload.Error
		case payload.Detail != "":
			apiErr.Message = payload.Detail
		}
	}
	return apiErr
}
