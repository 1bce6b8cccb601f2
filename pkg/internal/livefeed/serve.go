package livefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"nhooyr.io/websocket"
)

// ServeHTTP upgrades the request and streams events until the client leaves.
// The first call freezes the hub's configuration.
func (h *hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.StoreInt32(&h.configFrozen, 1)

	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.isClosed() {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	cfg := h.snapshotConfig()
	if cfg.maxConnections > 0 && h.ConnectionCount() >= cfg.maxConnections {
		http.Error(w, "Too Many Connections", http.StatusServiceUnavailable)
		return
	}

	opts := &websocket.AcceptOptions{}
	if len(cfg.allowedOrigins) > 0 {
		opts.OriginPatterns = cfg.allowedOrigins
	}
	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		h.NotifyLoggers(
			types.WarnLevel,
			"Accept: error",
			"component", h.componentMetadata,
			"event", "AcceptError",
			"error", err,
		)
		return
	}

	wc, err := h.addConn(conn, cfg)
	if err != nil {
		_ = conn.Close(websocket.StatusPolicyViolation, err.Error())
		h.NotifyLoggers(
			types.WarnLevel,
			"Accept: rejected connection",
			"component", h.componentMetadata,
			"event", "AcceptReject",
			"error", err,
		)
		return
	}

	h.NotifyLoggers(
		types.InfoLevel,
		"Live client connected",
		"component", h.componentMetadata,
		"event", "ConnectionAccepted",
		"remote", r.RemoteAddr,
	)

	h.run(wc, cfg)

	h.NotifyLoggers(
		types.InfoLevel,
		"Live client disconnected",
		"component", h.componentMetadata,
		"event", "ConnectionClosed",
		"remote", r.RemoteAddr,
	)
}

func (h *hub) run(wc *wsConn, cfg hubConfig) {
	defer h.dropConn(wc)

	// CloseRead discards inbound frames and cancels ctx when the peer goes away.
	ctx := wc.conn.CloseRead(h.baseCtx)

	err := h.writeLoop(ctx, cfg, wc)
	if err != nil && !isExpectedClose(err) {
		h.NotifyLoggers(
			types.WarnLevel,
			"WriteLoop error",
			"component", h.componentMetadata,
			"event", "WriteLoop",
			"error", err,
		)
	}
	wc.close(websocket.StatusNormalClosure, "feed closed")
}

func (h *hub) writeLoop(ctx context.Context, cfg hubConfig, wc *wsConn) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-wc.send:
			if !ok {
				return nil
			}
			writeCtx := ctx
			var cancel context.CancelFunc
			if cfg.writeTimeout > 0 {
				writeCtx, cancel = context.WithTimeout(ctx, cfg.writeTimeout)
			}
			err := wc.conn.Write(writeCtx, websocket.MessageText, frame)
			if cancel != nil {
				cancel()
			}
			if err != nil {
				return err
			}
		}
	}
}

func isExpectedClose(err error) bool {
	status := websocket.CloseStatus(err)
	if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Publish queues evt for every client. Clients whose queue is full miss the frame and
// the count is reported in the returned error.
func (h *hub) Publish(ctx context.Context, evt types.CompressionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conns := h.snapshotConns()
	if len(conns) == 0 {
		return nil
	}

	frame, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	dropped := 0
	for _, c := range conns {
		if !c.enqueue(frame) {
			dropped++
		}
	}
	if dropped > 0 {
		atomic.AddUint64(&h.dropped, uint64(dropped))
		return fmt.Errorf("live feed dropped event %s for %d client(s)", evt.ID, dropped)
	}
	return nil
}

// Close disconnects every client and rejects new ones.
func (h *hub) Close() error {
	if !atomic.CompareAndSwapInt32(&h.closed, 0, 1) {
		return nil
	}
	for _, c := range h.snapshotConns() {
		c.close(websocket.StatusGoingAway, "server shutting down")
	}
	h.cancel()
	return nil
}
