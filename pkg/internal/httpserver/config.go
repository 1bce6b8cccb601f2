package httpserver

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

type serverConfig struct {
	address       string
	headers       map[string]string
	timeout       time.Duration
	maxBodyBytes  int64
	tlsConfig     *tls.Config
	tlsConfigErr  error
	authRequired  bool
	staticHeaders map[string]string

	compressor types.Compressor
	history    types.HistoryStore
	liveFeed   http.Handler
}

// SetAddress configures the listen address.
func (s *apiServer) SetAddress(address string) {
	s.requireNotFrozen("SetAddress")
	s.configLock.Lock()
	s.address = address
	s.configLock.Unlock()
}

// AddHeader adds a default response header.
func (s *apiServer) AddHeader(key, value string) {
	s.requireNotFrozen("AddHeader")
	if key == "" {
		return
	}
	s.configLock.Lock()
	s.headers[key] = value
	s.configLock.Unlock()
}

// SetTimeout sets read/write timeouts. It also bounds graceful shutdown.
func (s *apiServer) SetTimeout(timeout time.Duration) {
	s.requireNotFrozen("SetTimeout")
	s.configLock.Lock()
	s.timeout = timeout
	s.configLock.Unlock()
}

// SetMaxBodyBytes caps request bodies; larger uploads get 413.
func (s *apiServer) SetMaxBodyBytes(n int64) {
	s.requireNotFrozen("SetMaxBodyBytes")
	if n <= 0 {
		n = DefaultMaxBodyBytes
	}
	s.configLock.Lock()
	s.maxBodyBytes = n
	s.configLock.Unlock()
}

// SetTLSConfig configures the server to use TLS for inbound connections.
func (s *apiServer) SetTLSConfig(tlsCfg types.TLSConfig) {
	s.requireNotFrozen("SetTLSConfig")
	s.configLock.Lock()
	defer s.configLock.Unlock()

	if !tlsCfg.UseTLS {
		s.tlsConfig = nil
		s.tlsConfigErr = nil
		return
	}

	cfg, err := buildTLSConfig(tlsCfg)
	s.tlsConfig = cfg
	s.tlsConfigErr = err
}

func (s *apiServer) snapshotConfig() serverConfig {
	s.configLock.Lock()
	headers := make(map[string]string, len(s.headers))
	for k, v := range s.headers {
		headers[k] = v
	}
	cfg := serverConfig{
		address:       s.address,
		headers:       headers,
		timeout:       s.timeout,
		maxBodyBytes:  s.maxBodyBytes,
		tlsConfig:     s.tlsConfig,
		tlsConfigErr:  s.tlsConfigErr,
		authRequired:  s.authRequired,
		staticHeaders: cloneHeaderMap(s.staticHeaders),
	}
	s.configLock.Unlock()

	s.collabsMu.Lock()
	cfg.compressor = s.compressor
	cfg.history = s.history
	cfg.liveFeed = s.liveFeed
	s.collabsMu.Unlock()
	return cfg
}
