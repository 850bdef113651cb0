package livereload

import (
	"net/http"
	"strings"
	"time"

	"github.com/bassista/go_preview/internal/logger"
	"golang.org/x/net/websocket"
)

// sendTimeout bounds a single write so a peer that stops reading cannot
// stall a broadcast.
var sendTimeout = 5 * time.Second

type wsSender struct {
	conn *websocket.Conn
}

func (s wsSender) Send(msg string) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(sendTimeout)); err != nil {
		return err
	}
	return websocket.Message.Send(s.conn, msg)
}

func (s wsSender) Close() error {
	return s.conn.Close()
}

// Handler upgrades the request and keeps the client registered until the
// browser goes away. Incoming messages are read and discarded.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		// reads outlive the server's timeouts; writes get a deadline per send
		_ = conn.SetDeadline(time.Time{})

		client := h.connect(wsSender{conn: conn})
		defer h.disconnect(client)

		for {
			var msg string
			if err := websocket.Message.Receive(conn, &msg); err != nil {
				return
			}
			logger.WithComponent("livereload").Tracef("ignoring client message from %d", client.id)
		}
	})
}

// IsUpgrade reports whether r asks for a websocket upgrade.
func IsUpgrade(r *http.Request) bool {
	return headerContainsToken(r.Header, "Connection", "upgrade") &&
		headerContainsToken(r.Header, "Upgrade", "websocket")
}

func headerContainsToken(h http.Header, name, token string) bool {
	for _, value := range h.Values(name) {
		for _, part := range strings.Split(value, ",") {
			if strings.EqualFold(strings.TrimSpace(part), token) {
				return true
			}
		}
	}
	return false
}
