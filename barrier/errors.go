package barrier

import "errors"

var (
	// ErrStopped is returned to a WaitAndGet caller released by Stop
	// before the draw ran.
	ErrStopped = errors.New("barrier stopped before the draw ran")
)
