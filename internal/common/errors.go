// Package common defines shared constants and sentinel errors used across
// client layers of jobhub. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation marks malformed input caught before any network call.
	ErrValidation = errors.New("validation error")

	// ErrBackendRejected marks a reachable server answering with a failure.
	// The concrete error is a *BackendError carrying the server message.
	ErrBackendRejected = errors.New("backend rejected request")

	// ErrUnavailable marks a server that could not be reached or timed out.
	ErrUnavailable = errors.New("server unavailable, check your connection")

	// ErrInvalidState marks an operation invoked in a state that does not allow it.
	ErrInvalidState = errors.New("invalid state")

	// State error refinements. All of them match ErrInvalidState.
	ErrCooldownActive   = stateError("resend cooldown still active")
	ErrNotAuthenticated = stateError("not authenticated")
	ErrRoleNotEntitled  = stateError("role not available for this account")
	ErrNoPending        = stateError("no pending verification")
)

type stateErr struct{ msg string }

func stateError(msg string) error { return &stateErr{msg: msg} }

func (e *stateErr) Error() string { return e.msg }

func (e *stateErr) Is(target error) bool { return target == ErrInvalidState }

// BackendError is returned when the server responded with a non-success
// status. Error returns the server message verbatim so it can be shown to
// the user as is.
type BackendError struct {
	StatusCode int
	Message    string
}

// NewBackendError builds a BackendError, falling back to the HTTP status text
// when the server did not provide a message.
func NewBackendError(status int, message string) *BackendError {
	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = ErrBackendRejected.Error()
	}
	return &BackendError{StatusCode: status, Message: message}
}

func (e *BackendError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrBackendRejected) hold for any BackendError.
func (e *BackendError) Is(target error) bool { return target == ErrBackendRejected }

// Message extracts the user-facing text of err. Backend rejections are
// passed through verbatim; everything else uses err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var be *BackendError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
