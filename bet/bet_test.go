package bet

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeBetWire builds the wire bytes for one bet.
func makeBetWire(name, surname string, document uint32, birthdate string, number uint16) []byte {
	buf := []byte{byte(len(name))}
	buf = append(buf, name...)
	buf = append(buf, byte(len(surname)))
	buf = append(buf, surname...)
	buf = append(buf, byte(document), byte(document>>8), byte(document>>16), byte(document>>24))
	buf = append(buf, birthdate...)
	buf = append(buf, byte(number), byte(number>>8))
	return buf
}

func TestFromBytesRoundTrip(t *testing.T) {
	wire := makeBetWire("John", "Doe", 1, "1990-01-01", 7582)

	b, off, err := FromBytes(1, wire)
	require.NoError(t, err)
	assert.Equal(t, len(wire), off)
	assert.Equal(t, byte(1), b.Agency)
	assert.Equal(t, "John", b.FirstName)
	assert.Equal(t, "Doe", b.LastName)
	assert.EqualValues(t, 1, b.Document)
	assert.Equal(t, "1990-01-01", b.Birthdate)
	assert.EqualValues(t, 7582, b.Number)
}

func TestFromBytesNeedMore(t *testing.T) {
	wire := makeBetWire("Jane", "Doe", 2, "1991-02-02", 7574)

	for n := 0; n < len(wire); n++ {
		_, _, err := FromBytes(9, wire[:n])
		assert.ErrorIsf(t, err, io.ErrUnexpectedEOF, "prefix length %d should need more bytes", n)
	}
}

func TestFromBytesSplitAnywhereDecodesIdentically(t *testing.T) {
	wire := makeBetWire("Split", "Case", 42, "2000-12-31", 123)
	want, _, err := FromBytes(5, wire)
	require.NoError(t, err)

	for split := 0; split <= len(wire); split++ {
		buf := append([]byte(nil), wire[:split]...)
		if split < len(wire) {
			_, _, perr := FromBytes(5, buf)
			require.ErrorIs(t, perr, io.ErrUnexpectedEOF)
		}
		var full []byte
		full = append(full, buf...)
		full = append(full, wire[split:]...)

		b, off, err := FromBytes(5, full)
		require.NoError(t, err)
		assert.Equal(t, len(wire), off)
		assert.Equal(t, "Split", b.FirstName)
		assert.Equal(t, want, b)
	}
}

func TestFromBytesMalformedUTF8(t *testing.T) {
	wire := makeBetWire("\xff\xfe", "Doe", 1, "1990-01-01", 1)
	_, _, err := FromBytes(1, wire)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestFromBytesMalformedDate(t *testing.T) {
	wire := makeBetWire("John", "Doe", 1, "not-a-date", 1)
	_, _, err := FromBytes(1, wire)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestFromBytesEmptyName(t *testing.T) {
	wire := makeBetWire("", "Doe", 1, "1990-01-01", 1)
	_, _, err := FromBytes(1, wire)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestWon(t *testing.T) {
	b := Bet{Number: 7574}
	assert.True(t, b.Won(7574))
	assert.False(t, b.Won(1))
}
