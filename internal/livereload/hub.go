// Package livereload pushes a reload signal to connected browsers whenever a
// file under the components tree changes.
package livereload

import (
	"sync"
	"sync/atomic"

	"github.com/bassista/go_preview/internal/logger"
)

// UpdateMessage is the only message the server sends: "reload the page".
const UpdateMessage = "update"

// State is the lifecycle of a connected client: Connecting -> Open -> Closed.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// sender is the write side of a client connection.
type sender interface {
	Send(msg string) error
	Close() error
}

// Client is one browser connected to the live-reload channel.
type Client struct {
	id    uint64
	conn  sender
	mu    sync.Mutex // serializes writes
	state atomic.Int32
}

func newClient(id uint64, conn sender) *Client {
	c := &Client{id: id, conn: conn}
	c.state.Store(int32(StateConnecting))
	return c
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	return State(c.state.Load())
}

func (c *Client) send(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Send(msg)
}

// close moves the client to Closed; it reports false if it already was.
func (c *Client) close() bool {
	if State(c.state.Swap(int32(StateClosed))) == StateClosed {
		return false
	}
	_ = c.conn.Close()
	return true
}

// Hub is the process-wide set of connected clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	nextID  atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// connect creates a client for conn and registers it as open.
func (h *Hub) connect(conn sender) *Client {
	c := newClient(h.nextID.Add(1), conn)
	h.mu.Lock()
	h.clients[c] = struct{}{}
	c.state.Store(int32(StateOpen))
	n := len(h.clients)
	h.mu.Unlock()
	logger.WithComponent("livereload").Debugf("client %d connected (%d open)", c.id, n)
	return c
}

// disconnect closes c and drops it from the set. Safe to call twice.
func (h *Hub) disconnect(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	if c.close() {
		logger.WithComponent("livereload").Debugf("client %d disconnected (%d open)", c.id, n)
	}
}

// Len returns the number of registered clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends UpdateMessage once to every open client and returns how many
// received it. Clients that are not open are skipped; a client whose send
// fails is disconnected without interrupting the others.
func (h *Hub) Broadcast() int {
	h.mu.Lock()
	snapshot := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	delivered := 0
	for _, c := range snapshot {
		if c.State() != StateOpen {
			continue
		}
		if err := c.send(UpdateMessage); err != nil {
			logger.WithComponent("livereload").Debugf("dropping client %d: %v", c.id, err)
			h.disconnect(c)
			continue
		}
		delivered++
	}
	logger.WithComponent("livereload").Debugf("reload broadcast delivered to %d client(s)", delivered)
	return delivered
}
