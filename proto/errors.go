package proto

import "errors"

var (
	// ErrUnknownCode names a request Code outside the closed set
	// BET/END_BETTING/REQUEST_WINNERS. Nothing in this module returns it:
	// ParseHeader accepts any code byte, and the handler answers an
	// unknown code with BAD_REQUEST.
	ErrUnknownCode = errors.New("unknown message code")
)
