package livefeed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"nhooyr.io/websocket"
)

func newTestHub(t *testing.T, options ...types.Option[types.LiveFeed]) (*hub, *httptest.Server, string) {
	t.Helper()
	h := NewHub(context.Background(), options...).(*hub)
	ts := httptest.NewServer(h)
	t.Cleanup(func() {
		_ = h.Close()
		ts.Close()
	})
	return h, ts, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func waitForConns(t *testing.T, h *hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ConnectionCount() == n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d connections, got %d", n, h.ConnectionCount())
}

func TestHub_BroadcastsEvents(t *testing.T) {
	h, _, url := newTestHub(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	a, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial a: %v", err)
	}
	defer a.Close(websocket.StatusNormalClosure, "test done")
	b, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial b: %v", err)
	}
	defer b.Close(websocket.StatusNormalClosure, "test done")

	waitForConns(t, h, 2)

	evt := types.CompressionEvent{ID: "rec-9", FileName: "a.txt", CompressionRatio: 42}
	if err := h.Publish(ctx, evt); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for _, c := range []*websocket.Conn{a, b} {
		typ, data, err := c.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if typ != websocket.MessageText {
			t.Fatalf("expected text frame, got %v", typ)
		}
		var got types.CompressionEvent
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != "rec-9" || got.CompressionRatio != 42 {
			t.Fatalf("unexpected event %+v", got)
		}
	}
}

func TestHub_DropsClientOnDisconnect(t *testing.T) {
	h, _, url := newTestHub(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitForConns(t, h, 1)

	_ = c.Close(websocket.StatusNormalClosure, "bye")
	waitForConns(t, h, 0)
}

func TestHub_MaxConnections(t *testing.T) {
	h, _, url := newTestHub(t, WithMaxConnections(1))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close(websocket.StatusNormalClosure, "test done")
	waitForConns(t, h, 1)

	_, resp, err := websocket.Dial(ctx, url, nil)
	if err == nil {
		t.Fatalf("expected second dial to be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %+v", resp)
	}
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	h, _, url := newTestHub(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitForConns(t, h, 1)

	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, _, err := c.Read(ctx); websocket.CloseStatus(err) != websocket.StatusGoingAway {
		t.Fatalf("expected going-away close, got %v", err)
	}

	if _, resp, err := websocket.Dial(ctx, url, nil); err == nil || resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected closed hub to reject with 503, got %v", err)
	}
}

func TestHub_RejectsForeignOrigin(t *testing.T) {
	_, _, url := newTestHub(t, WithAllowedOrigins("app.example.com"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	hdr := http.Header{}
	hdr.Set("Origin", "https://evil.example.org")
	if _, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{HTTPHeader: hdr}); err == nil {
		t.Fatalf("expected foreign origin to be rejected")
	}
}

func TestWSConn_EnqueueDropsWhenFull(t *testing.T) {
	c := newWSConn(nil, 1)
	if !c.enqueue([]byte("one")) {
		t.Fatalf("expected first frame to queue")
	}
	if c.enqueue([]byte("two")) {
		t.Fatalf("expected second frame to be dropped")
	}
}

func TestHub_PublishWithoutClients(t *testing.T) {
	h := NewHub(context.Background())
	if err := h.Publish(context.Background(), types.CompressionEvent{ID: "x"}); err != nil {
		t.Fatalf("expected nil error with no clients, got %v", err)
	}
}

func TestHub_FrozenAfterServe(t *testing.T) {
	h := NewHub(context.Background())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/live", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when configuring a serving hub")
		}
	}()
	h.SetSendBuffer(8)
}
