package bet

import "errors"

var (
	// ErrMalformed is returned when a bet's name/surname is not valid
	// UTF-8, either is empty, or the birthdate does not parse as a
	// real calendar date. Surfaced by the handler as BAD_REQUEST.
	ErrMalformed = errors.New("malformed bet payload")
)
