// Package bet represents one lottery bet and its wire codec.
package bet

import (
	"io"
	"time"
	"unicode/utf8"

	"github.com/noahmasri/tp0-distribuidos/wire"
)

// dateLayout is the fixed 10-byte ASCII calendar date on the wire.
const dateLayout = "2006-01-02"

// Bet is an immutable lottery entry, decoded from one agency connection.
type Bet struct {
	Agency    byte   // always the header agency of the connection that sent it
	FirstName string // non-empty, <=255 bytes UTF-8
	LastName  string // non-empty, <=255 bytes UTF-8
	Document  uint32 // national id
	Birthdate string // "YYYY-MM-DD", validated as a real calendar date
	Number    uint16 // lottery pick
}

// Won reports whether b matches the single winning number for this draw.
func (b Bet) Won(winnerNumber uint16) bool {
	return b.Number == winnerNumber
}

// FromBytes decodes one Bet from the front of buf, assigning agency from
// the enclosing connection's header rather than from the payload.
//
// Returns the number of bytes consumed from buf. If buf does not yet hold
// a complete bet, it returns io.ErrUnexpectedEOF and the caller must read
// more bytes before retrying.
// Malformed UTF-8 or an invalid calendar date return ErrMalformed.
func FromBytes(agency byte, buf []byte) (b Bet, off int, err error) {
	if len(buf) < 1 {
		return b, 0, io.ErrUnexpectedEOF
	}
	nameLen := int(buf[0])
	off = 1
	if len(buf) < off+nameLen+1 {
		return b, 0, io.ErrUnexpectedEOF
	}
	name := buf[off : off+nameLen]
	off += nameLen

	snLen := int(buf[off])
	off++
	if len(buf) < off+snLen+4+10+2 {
		return b, 0, io.ErrUnexpectedEOF
	}
	surname := buf[off : off+snLen]
	off += snLen

	if !utf8.Valid(name) || !utf8.Valid(surname) {
		return b, 0, ErrMalformed
	}
	if nameLen == 0 || snLen == 0 {
		return b, 0, ErrMalformed
	}

	document := wire.Lsb.Uint32(buf[off : off+4])
	off += 4

	birthdate := buf[off : off+10]
	off += 10
	if _, perr := time.Parse(dateLayout, string(birthdate)); perr != nil {
		return b, 0, ErrMalformed
	}

	number := wire.Lsb.Uint16(buf[off : off+2])
	off += 2

	b = Bet{
		Agency:    agency,
		FirstName: string(name),
		LastName:  string(surname),
		Document:  document,
		Birthdate: string(birthdate),
		Number:    number,
	}
	return b, off, nil
}
