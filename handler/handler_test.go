package handler

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahmasri/tp0-distribuidos/barrier"
	"github.com/noahmasri/tp0-distribuidos/proto"
	"github.com/noahmasri/tp0-distribuidos/store"
	"github.com/noahmasri/tp0-distribuidos/wire"
)

func wireBet(name, surname string, document uint32, birthdate string, number uint16) []byte {
	buf := []byte{byte(len(name))}
	buf = append(buf, name...)
	buf = append(buf, byte(len(surname)))
	buf = append(buf, surname...)
	buf = wire.Lsb.AppendUint32(buf, document)
	buf = append(buf, birthdate...)
	buf = wire.Lsb.AppendUint16(buf, number)
	return buf
}

func betRequest(agency byte, bets ...[]byte) []byte {
	req := []byte{agency, byte(proto.BET), byte(len(bets))}
	for _, b := range bets {
		req = append(req, b...)
	}
	return req
}

func readN(t *testing.T, conn net.Conn, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	_, err := io.ReadFull(conn, buf)
	require.NoError(t, err)
	return buf
}

func newPipeHandler(st Store, b Barrier) (client net.Conn, stop func()) {
	var server net.Conn
	client, server = net.Pipe()
	h := New(server, st, b, zerolog.Nop(), func() bool { return false })
	go h.Serve()
	return client, func() { client.Close() }
}

func TestSingleBetThenWinners(t *testing.T) {
	dir := t.TempDir()
	s, err := store.Open(dir + "/bets.csv")
	require.NoError(t, err)
	defer s.Close()

	b := barrier.New(2, s, 7574, zerolog.Nop())

	c1, stop1 := newPipeHandler(s, b)
	defer stop1()
	c2, stop2 := newPipeHandler(s, b)
	defer stop2()

	_, err = c1.Write(betRequest(1, wireBet("John", "Doe", 1, "1990-01-01", 7582)))
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(proto.OK)}, readN(t, c1, 1))

	_, err = c1.Write([]byte{1, byte(proto.END_BETTING)})
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(proto.OK)}, readN(t, c1, 1))

	_, err = c2.Write(betRequest(2, wireBet("Jane", "Doe", 2, "1991-02-02", 7582)))
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(proto.OK)}, readN(t, c2, 1))

	_, err = c2.Write([]byte{2, byte(proto.END_BETTING)})
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(proto.OK)}, readN(t, c2, 1))

	_, err = c1.Write([]byte{1, byte(proto.REQUEST_WINNERS)})
	require.NoError(t, err)
	reply := readN(t, c1, 3)
	assert.Equal(t, []byte{byte(proto.SEND_WINNERS), 0, 0}, reply)
}

func TestWinningBetReturnsDocument(t *testing.T) {
	dir := t.TempDir()
	s, err := store.Open(dir + "/bets.csv")
	require.NoError(t, err)
	defer s.Close()

	b := barrier.New(2, s, 7574, zerolog.Nop())

	c1, stop1 := newPipeHandler(s, b)
	defer stop1()
	c2, stop2 := newPipeHandler(s, b)
	defer stop2()

	c1.Write(betRequest(1, wireBet("John", "Doe", 1, "1990-01-01", 7574)))
	readN(t, c1, 1)
	c1.Write([]byte{1, byte(proto.END_BETTING)})
	readN(t, c1, 1)

	c2.Write(betRequest(2, wireBet("Jane", "Doe", 2, "1991-02-02", 7574)))
	readN(t, c2, 1)
	c2.Write([]byte{2, byte(proto.END_BETTING)})
	readN(t, c2, 1)

	c1.Write([]byte{1, byte(proto.REQUEST_WINNERS)})
	reply := readN(t, c1, 7)
	assert.Equal(t, byte(proto.SEND_WINNERS), reply[0])
	assert.Equal(t, []byte{1, 0}, reply[1:3]) // count = 1, little-endian
	assert.Equal(t, []byte{1, 0, 0, 0}, reply[3:7])
}

func TestLateBetGetsNoMoreBetsAllowed(t *testing.T) {
	dir := t.TempDir()
	s, err := store.Open(dir + "/bets.csv")
	require.NoError(t, err)
	defer s.Close()

	b := barrier.New(2, s, 7574, zerolog.Nop())
	c1, stop1 := newPipeHandler(s, b)
	defer stop1()

	c1.Write([]byte{1, byte(proto.END_BETTING)})
	assert.Equal(t, []byte{byte(proto.OK)}, readN(t, c1, 1))

	c1.Write(betRequest(1, wireBet("John", "Doe", 1, "1990-01-01", 1)))
	assert.Equal(t, []byte{byte(proto.NO_MORE_BETS_ALLOWED)}, readN(t, c1, 1))
}

// TestLateBetDoesNotDesyncTheConnection checks that a rejected batch's bytes
// are fully consumed off the wire, not left to be mis-parsed as the next
// request's header/body: a follow-up request on the same connection must
// still be read and answered correctly.
func TestLateBetDoesNotDesyncTheConnection(t *testing.T) {
	dir := t.TempDir()
	s, err := store.Open(dir + "/bets.csv")
	require.NoError(t, err)
	defer s.Close()

	b := barrier.New(2, s, 7574, zerolog.Nop())
	c1, stop1 := newPipeHandler(s, b)
	defer stop1()

	c1.Write([]byte{1, byte(proto.END_BETTING)})
	assert.Equal(t, []byte{byte(proto.OK)}, readN(t, c1, 1))

	c1.Write(betRequest(1,
		wireBet("John", "Doe", 1, "1990-01-01", 1),
		wireBet("Jane", "Doe", 2, "1991-02-02", 2),
	))
	assert.Equal(t, []byte{byte(proto.NO_MORE_BETS_ALLOWED)}, readN(t, c1, 1))

	// A follow-up request on the same connection must still parse cleanly,
	// proving the rejected batch's bytes were fully drained.
	c1.Write([]byte{1, byte(proto.END_BETTING)})
	assert.Equal(t, []byte{byte(proto.OK)}, readN(t, c1, 1))
}

func TestMalformedHeaderClosesConnection(t *testing.T) {
	dir := t.TempDir()
	s, err := store.Open(dir + "/bets.csv")
	require.NoError(t, err)
	defer s.Close()

	b := barrier.New(2, s, 7574, zerolog.Nop())
	c1, stop1 := newPipeHandler(s, b)
	defer stop1()

	c1.Write([]byte{1, 0xFF})
	assert.Equal(t, []byte{byte(proto.BAD_REQUEST)}, readN(t, c1, 1))

	c1.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 1)
	_, err = c1.Read(buf)
	assert.Error(t, err) // connection closed by the server
}

func TestSplitBatchAcrossWrites(t *testing.T) {
	dir := t.TempDir()
	s, err := store.Open(dir + "/bets.csv")
	require.NoError(t, err)
	defer s.Close()

	b := barrier.New(2, s, 7574, zerolog.Nop())
	c1, stop1 := newPipeHandler(s, b)
	defer stop1()

	req := betRequest(1, wireBet("John", "Doe", 1, "1990-01-01", 7582))
	go func() {
		c1.Write(req[:4])
		time.Sleep(5 * time.Millisecond)
		c1.Write(req[4:])
	}()

	assert.Equal(t, []byte{byte(proto.OK)}, readN(t, c1, 1))
}
