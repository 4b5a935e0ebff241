package library

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated means no token was stored; no request was sent.
	ErrUnauthenticated = errors.New("not logged in")
	// ErrUnauthorized means the server rejected the stored token (HTTP 401).
	ErrUnauthorized = errors.New("session expired or rejected, please log in again")
	// ErrSuperseded is returned by a load whose result was discarded because a
	// newer load for the same listing started.
	ErrSuperseded = errors.New("superseded by a newer request")
	// ErrNoToken is returned when a login succeeds without an access token.
	ErrNoToken = errors.New("no token received")
	// ErrBusy is returned when a form is submitted while a submission is in flight.
	ErrBusy = errors.New("a request is already in progress")
)

// RequestFailedError is any non-success HTTP status other than 401.
type RequestFailedError struct {
	StatusCode int
	// Message is the server-supplied message, if the body carried one.
	Message string
}

func (e *RequestFailedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// NetworkError wraps a transport-level failure (DNS, refused connection,
// reset, timeout).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError is a local form check that failed before any request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsAuthError reports whether err forces the user back to the login screen.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrUnauthorized)
}

// serverMessage extracts the server-supplied text from err, or returns def.
func serverMessage(err error, def string) string {
	var rf *RequestFailedError
	if errors.As(err, &rf) && rf.Message != "" {
		return rf.Message
	}
	return def
}
