// Package livefeed pushes compression events to browsers over websockets.
//
// A Hub is both the /api/live handler and an event publisher: every event published
// to it is written as one JSON text frame to each attached client. Clients only
// listen; anything they send is discarded.
package livefeed

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"github.com/joeydtaylor/condenser/pkg/internal/utils"
)

const (
	DefaultSendBuffer   = 64
	DefaultWriteTimeout = 5 * time.Second
)

type hub struct {
	componentMetadata types.ComponentMetadata

	allowedOrigins []string
	sendBuffer     int
	maxConnections int
	writeTimeout   time.Duration

	loggers     []types.Logger
	loggersLock sync.Mutex

	configLock   sync.Mutex
	configFrozen int32

	baseCtx context.Context
	cancel  context.CancelFunc
	closed  int32

	conns   map[*wsConn]struct{}
	connsMu sync.Mutex

	dropped uint64
}

// NewHub returns a hub whose connections end when ctx is canceled or Close is called.
func NewHub(ctx context.Context, options ...types.Option[types.LiveFeed]) types.LiveFeed {
	if ctx == nil {
		ctx = context.Background()
	}
	baseCtx, cancel := context.WithCancel(ctx)
	h := &hub{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "LIVE_FEED",
		},
		sendBuffer:   DefaultSendBuffer,
		writeTimeout: DefaultWriteTimeout,
		baseCtx:      baseCtx,
		cancel:       cancel,
		conns:        make(map[*wsConn]struct{}),
	}

	for _, opt := range options {
		opt(h)
	}
	return h
}

func (h *hub) isFrozen() bool {
	return atomic.LoadInt32(&h.configFrozen) == 1
}

func (h *hub) isClosed() bool {
	return atomic.LoadInt32(&h.closed) == 1
}

// Dropped reports how many frames were discarded for slow clients.
func (h *hub) Dropped() uint64 {
	return atomic.LoadUint64(&h.dropped)
}
