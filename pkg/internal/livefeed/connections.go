package livefeed

import (
	"errors"
	"sync"

	"nhooyr.io/websocket"
)

var errMaxConnections = errors.New("max connections reached")

type wsConn struct {
	conn *websocket.Conn
	send chan []byte

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

func newWSConn(conn *websocket.Conn, buffer int) *wsConn {
	if buffer <= 0 {
		buffer = DefaultSendBuffer
	}
	return &wsConn{
		conn: conn,
		send: make(chan []byte, buffer),
	}
}

// enqueue never blocks; a full queue drops the frame.
func (c *wsConn) enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *wsConn) close(code websocket.StatusCode, reason string) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		_ = c.conn.Close(code, reason)
	})
}

func (h *hub) addConn(conn *websocket.Conn, cfg hubConfig) (*wsConn, error) {
	h.connsMu.Lock()
	defer h.connsMu.Unlock()

	if cfg.maxConnections > 0 && len(h.conns) >= cfg.maxConnections {
		return nil, errMaxConnections
	}
	wc := newWSConn(conn, cfg.sendBuffer)
	h.conns[wc] = struct{}{}
	return wc, nil
}

func (h *hub) dropConn(wc *wsConn) {
	h.connsMu.Lock()
	delete(h.conns, wc)
	h.connsMu.Unlock()
}

func (h *hub) snapshotConns() []*wsConn {
	h.connsMu.Lock()
	defer h.connsMu.Unlock()

	if len(h.conns) == 0 {
		return nil
	}
	out := make([]*wsConn, 0, len(h.conns))
	for c := range h.conns {
		out = append(out, c)
	}
	return out
}

func (h *hub) ConnectionCount() int {
	h.connsMu.Lock()
	defer h.connsMu.Unlock()
	return len(h.conns)
}
