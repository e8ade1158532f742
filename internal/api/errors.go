package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx backend response.  Message is whatever the
// backend said, suitable for showing to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
}

// newAPIError extracts a display message from an error body.  The
// backend answers with a plain string, a JSON string, or an object with
// "message" or "error".
func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return e
	}
	var obj struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	var str string
	switch {
	case json.Unmarshal(body, &str) == nil:
		e.Message = str
	case json.Unmarshal(body, &obj) == nil && (obj.Message != "" || obj.Error != ""):
		e.Message = obj.Message
		if e.Message == "" {
			e.Message = obj.Error
		}
	default:
		e.Message = trimmed
	}
	return e
}

// StatusCode returns the HTTP status of an *APIError in err's chain, or
// 0 when err did not come from a backend response.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether the backend answered 404.
func IsNotFound(err error) bool { return StatusCode(err) == http.StatusNotFound }
