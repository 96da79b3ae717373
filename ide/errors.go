package ide

import (
	"errors"
	"fmt"
)

// Sentinel error values
var (
	ErrLoginFailed      = errors.New("login failed")
	ErrNotLoggedIn      = errors.New("not logged in")
	ErrSessionClosed    = errors.New("session closed")
	ErrSessionExpired   = errors.New("session expired")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrNoMatch          = errors.New("no match in page")
	ErrUnknownKind      = errors.New("unknown application kind")
	ErrInvalidID        = errors.New("invalid application id")
)

// StatusError is returned when the IDE answers an operation with a status
// other than the one that operation expects
type StatusError struct {
	Op     string // operation name, e.g. "download"
	Status int    // status received
	Want   int    // status expected
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s %d (want %d)", e.Op, ErrUnexpectedStatus, e.Status, e.Want)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
