package frame

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureAcrossMultipleChunks(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		client.Write([]byte{1, 2})
		time.Sleep(10 * time.Millisecond)
		client.Write([]byte{3, 4, 5})
	}()

	r := New(server)
	require.NoError(t, r.Ensure(5))
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, r.Bytes())
}

func TestDiscardKeepsRemainder(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go client.Write([]byte{1, 2, 3, 4})

	r := New(server)
	require.NoError(t, r.Ensure(4))
	r.Discard(2)
	assert.Equal(t, []byte{3, 4}, r.Bytes())
}

func TestEnsureConnectionClosed(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	go func() {
		client.Write([]byte{1})
		client.Close()
	}()

	r := New(server)
	err := r.Ensure(5)
	assert.ErrorIs(t, err, ErrConnectionClosed)
}
