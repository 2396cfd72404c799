package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error is an application-level failure reported by the backend: the
// request completed but the response status was outside 2xx.
type Error struct {
	// StatusCode is the HTTP status of the failed response.
	StatusCode int

	// Detail is the server-supplied human-readable message, or empty
	// when the failure body could not be parsed.
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// errorFromResponse builds an *Error from a non-2xx response, attempting
// to extract the {"detail": "..."} envelope. A body that cannot be
// parsed yields an Error with an empty Detail so callers fall back to
// their own generic message.
func errorFromResponse(resp *http.Response) *Error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	// Bound the read: failure bodies are small, but the response is
	// not under our control.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}

	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}

	apiErr.Detail = envelope.Detail
	return apiErr
}

// Detail extracts the server-supplied message from err when it is an
// application-level *Error with a parsed detail. The second return is
// false for transport failures and unparseable bodies, signalling the
// caller to use a generic per-operation message instead.
func Detail(err error) (string, bool) {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Detail == "" {
		return "", false
	}
	return apiErr.Detail, true
}
