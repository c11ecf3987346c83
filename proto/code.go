// Package proto defines the wire-level message and status codes shared
// by every agency connection, plus the fixed-size request header.
package proto

// Code represents the one-byte message code that opens every request.
//
//go:generate go run github.com/dmarkham/enumer -type=Code -trimprefix ""
type Code byte

const (
	BET             Code = 0
	END_BETTING     Code = 1
	REQUEST_WINNERS Code = 2
)

// Status represents the one-byte status that opens every reply.
//
//go:generate go run github.com/dmarkham/enumer -type=Status -trimprefix ""
type Status byte

const (
	OK                   Status = 0
	ERROR                Status = 1
	BAD_REQUEST          Status = 2
	ABORT                Status = 3 // reserved, unused by this handler
	LOTTERY_NOT_DONE     Status = 4 // reserved, unused: the handler blocks instead
	SEND_WINNERS         Status = 5
	NO_MORE_BETS_ALLOWED Status = 6
)

// MaxAgency is the largest legal agency id; agency fits one wire byte and
// zero is not a valid agency.
const MaxAgency = 255

// ValidAgency reports whether a falls in the legal agency range [1, MaxAgency].
func ValidAgency(a byte) bool {
	return a >= 1 && a <= MaxAgency
}

// HeaderLen is the size in bytes of the fixed request header: agency, code.
const HeaderLen = 2

// Header is the two-byte prefix that opens every request.
type Header struct {
	Agency byte
	Code   Code
}

// ParseHeader reads a Header from the front of buf.
// buf must be at least HeaderLen bytes; callers ensure that via frame.Reader.
func ParseHeader(buf []byte) Header {
	return Header{Agency: buf[0], Code: Code(buf[1])}
}
