package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches a StatusError for a missing invoice or parcel.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized matches a StatusError for rejected or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDigestMismatch is returned when parcel content does not hash to its fingerprint.
	ErrDigestMismatch = errors.New("parcel content does not match its fingerprint")
)

// StatusError is returned when the server answers with an unexpected status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	// Body holds the beginning of the response body, if any.
	Body string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: unexpected status %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	default:
		return false
	}
}
