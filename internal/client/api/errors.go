// Package api implements the HTTP wire client for the remote contacts
// service and the error taxonomy shared by the client core.
package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized reports that no credential was present when a bearer-gated
// operation was attempted. No network call is made in that case.
var ErrUnauthorized = errors.New("unauthorized: no credential present")

// ErrNoSession reports that no persisted credential exists to restore.
// It marks the expected "never logged in" path, not a failure.
var ErrNoSession = errors.New("no saved session")

// ValidationError reports required input missing at the call site.
// It is detected locally; no network call is issued.
type ValidationError struct {
	// Fields names the missing required inputs.
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// RejectedError carries an explicit error message reported by the remote
// service. The message is safe to show to the user verbatim.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return e.Message }

// TransportError wraps a network or decode failure. The cause is for
// diagnostics only; users get a generic message instead.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }
