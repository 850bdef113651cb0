package livereload

import (
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

// pipeListener hands out in-memory connections. net.Pipe has no buffering,
// so a peer that never reads blocks every write.
type pipeListener struct {
	conns     chan net.Conn
	done      chan struct{}
	closeOnce sync.Once
}

func newPipeListener() *pipeListener {
	return &pipeListener{conns: make(chan net.Conn), done: make(chan struct{})}
}

func (l *pipeListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.conns:
		return c, nil
	case <-l.done:
		return nil, net.ErrClosed
	}
}

func (l *pipeListener) Close() error {
	l.closeOnce.Do(func() { close(l.done) })
	return nil
}

func (l *pipeListener) Addr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)}
}

func (l *pipeListener) dial() net.Conn {
	client, server := net.Pipe()
	l.conns <- server
	return client
}

func TestBroadcast_StalledPeerIsDroppedAfterSendTimeout(t *testing.T) {
	previous := sendTimeout
	sendTimeout = 100 * time.Millisecond
	t.Cleanup(func() { sendTimeout = previous })

	hub := NewHub()
	ln := newPipeListener()
	srv := &http.Server{Handler: hub.Handler()}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Close() })

	cfg, err := websocket.NewConfig("ws://preview.local"+Path, "http://preview.local")
	require.NoError(t, err)
	stalled, err := websocket.NewClient(cfg, ln.dial())
	require.NoError(t, err)
	defer stalled.Close()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	// the client never reads, so the write can only end by its deadline
	done := make(chan int, 1)
	go func() { done <- hub.Broadcast() }()

	select {
	case delivered := <-done:
		assert.Equal(t, 0, delivered)
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a peer that stopped reading")
	}
	assert.Equal(t, 0, hub.Len())
}
