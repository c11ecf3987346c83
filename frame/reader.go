// Package frame provides a connection-scoped read buffer that turns an
// unbounded TCP byte stream into "give me at least k bytes" requests,
// since the socket does not respect our message boundaries.
package frame

import (
	"errors"
	"io"
	"net"
)

// readChunk is the largest single read(2) the reader issues per Fill.
const readChunk = 1024

// Reader buffers unconsumed bytes read from one net.Conn. It is not safe
// for concurrent use: each connection owns exactly one Reader, read by
// exactly one handler goroutine.
type Reader struct {
	conn net.Conn
	buf  []byte // unconsumed bytes, oldest first
}

// New returns a Reader pulling from conn.
func New(conn net.Conn) *Reader {
	return &Reader{conn: conn}
}

// Bytes returns the currently buffered, unconsumed bytes. The slice is
// only valid until the next Fill or Discard call.
func (r *Reader) Bytes() []byte {
	return r.buf
}

// Discard drops the first n bytes of the buffer, e.g. after a decoder
// reports how many bytes it consumed.
func (r *Reader) Discard(n int) {
	r.buf = append(r.buf[:0], r.buf[n:]...)
}

// Fill reads one chunk (up to readChunk bytes) from the connection and
// appends it to the buffer. Returns ErrConnectionClosed if the peer
// closed the connection before any bytes were read.
func (r *Reader) Fill() error {
	var chunk [readChunk]byte
	n, err := r.conn.Read(chunk[:])
	if n > 0 {
		r.buf = append(r.buf, chunk[:n]...)
	}
	if err != nil {
		if n > 0 {
			return nil // keep the data we got; surface the error on the next Fill
		}
		if errors.Is(err, io.EOF) {
			return ErrConnectionClosed
		}
		return err
	}
	return nil
}

// Ensure blocks, reading further chunks, until the buffer holds at least
// k bytes. Fails with ErrConnectionClosed if the peer closes first.
func (r *Reader) Ensure(k int) error {
	for len(r.buf) < k {
		if err := r.Fill(); err != nil {
			return err
		}
	}
	return nil
}
