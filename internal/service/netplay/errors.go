package netplay

import "errors"

var (
	// ErrProtocolMismatch means the peers disagree: a handshake reply did not
	// match the request, or the two game copies judged a move differently.
	ErrProtocolMismatch = errors.New("protocol mismatch")

	// ErrTransport wraps failures of the underlying connection.
	ErrTransport = errors.New("transport failure")

	// ErrWrongState is returned when an operation is called out of order. It
	// is a caller bug and leaves the session untouched.
	ErrWrongState = errors.New("operation not allowed in current state")
)
