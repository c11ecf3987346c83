package frame

import "errors"

var (
	// ErrConnectionClosed is returned when the peer closes the socket
	// before the requested number of bytes arrived.
	ErrConnectionClosed = errors.New("connection closed")
)
