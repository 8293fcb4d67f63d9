package controller

import (
	"errors"
	"fmt"
)

// ErrRequestPending is returned when an action is invoked while its
// previous request is still in flight. Only one pending request per
// action is allowed.
var ErrRequestPending = errors.New("a request for this action is already pending")

// ValidationError is a locally detected input problem. It is surfaced to
// the user and never reaches the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// BackendError is a non-2xx response, carrying the server-provided
// message when the body had one.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// TransportError wraps a network or decoding failure.
type TransportError struct {
	Err error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("transport failure: %s", e.Err.Error())
}

func (e TransportError) Unwrap() error {
	return e.Err
}
