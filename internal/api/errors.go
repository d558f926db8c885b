package api

import (
	"errors"
	"fmt"
)

// ErrInvalidURL means the configured base URL or endpoint path could not be
// parsed. This is a configuration bug, not a runtime condition: nothing the
// user does at upload time can fix it.
var ErrInvalidURL = errors.New("invalid endpoint URL")

// ErrInvalidResponse means the transport failed before an HTTP response was
// available (connection refused, DNS failure, timeout). Treated as transient
// and surfaced to the user for retry.
var ErrInvalidResponse = errors.New("invalid server response")

// ErrUnauthorized means no bearer token was available when one was required,
// or the server rejected the token with HTTP 401. Callers should prompt the
// user to log in again.
var ErrUnauthorized = errors.New("unauthorized")

// ErrDecoding means the server answered with a success status but a body
// that does not match the expected schema. The raw body is logged for
// debugging; users see a generic processing failure.
var ErrDecoding = errors.New("failed to decode server response")

// StatusError reports a non-2xx HTTP response. It carries the raw response
// body for diagnostics; callers log it but never show it verbatim.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}
