// Package httpserver exposes the compression service over HTTP.
package httpserver

import (
	"context"
	"crypto/tls"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"github.com/joeydtaylor/condenser/pkg/internal/utils"
)

const (
	DefaultAddress      = ":8080"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 32 << 20
	DefaultHistoryLimit = 100
)

// apiServer implements types.APIServer.
type apiServer struct {
	componentMetadata types.ComponentMetadata

	// ctx is the component lifetime; Serve also stops when it ends.
	ctx context.Context

	address      string
	headers      map[string]string
	timeout      time.Duration
	maxBodyBytes int64

	tlsConfig    *tls.Config
	tlsConfigErr error

	staticHeaders map[string]string
	authRequired  bool

	compressor types.Compressor
	history    types.HistoryStore
	liveFeed   http.Handler
	collabsMu  sync.Mutex

	loggers     []types.Logger
	loggersLock sync.Mutex

	configLock   sync.Mutex
	configFrozen int32

	server   *http.Server
	serverMu sync.Mutex
}

// NewAPIServer constructs a server with defaults. Collaborators are attached through
// options or the Connect methods before Serve.
func NewAPIServer(ctx context.Context, options ...types.Option[types.APIServer]) types.APIServer {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &apiServer{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "API_SERVER",
		},
		ctx:           ctx,
		address:       DefaultAddress,
		headers:       make(map[string]string),
		timeout:       DefaultTimeout,
		maxBodyBytes:  DefaultMaxBodyBytes,
		staticHeaders: make(map[string]string),
		authRequired:  true,
	}

	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *apiServer) isFrozen() bool {
	return atomic.LoadInt32(&s.configFrozen) == 1
}
