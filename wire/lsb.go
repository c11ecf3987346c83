// Package wire provides the little-endian binary read/write helpers used
// by every multi-byte field on the lottery wire protocol.
package wire

import (
	"encoding/binary"
	"io"
)

// Lsb is the little-endian byte order shared by every field wider than
// one byte in this protocol (document, number, winner count/documents).
var Lsb = lsb{
	binary.LittleEndian,
	binary.LittleEndian,
}

type lsb struct {
	binary.ByteOrder
	binary.AppendByteOrder
}

func (lsb) WriteUint8(w io.Writer, v uint8) (n int, err error) {
	b := [...]byte{byte(v)}
	return w.Write(b[:])
}

func (l lsb) WriteUint16(w io.Writer, v uint16) (n int, err error) {
	var b [2]byte
	l.PutUint16(b[:], v)
	return w.Write(b[:])
}

func (l lsb) WriteUint32(w io.Writer, v uint32) (n int, err error) {
	var b [4]byte
	l.PutUint32(b[:], v)
	return w.Write(b[:])
}
