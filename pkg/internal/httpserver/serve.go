package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

// Handler freezes the configuration and returns the routed handler.
func (s *apiServer) Handler() http.Handler {
	atomic.StoreInt32(&s.configFrozen, 1)
	return s.buildHandler(s.snapshotConfig())
}

// Serve listens on the configured address until ctx or the constructor context is canceled.
func (s *apiServer) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	s.serverMu.Lock()
	defer s.serverMu.Unlock()

	if s.server != nil {
		return fmt.Errorf("server already started")
	}

	cfg := s.snapshotConfig()
	if cfg.tlsConfigErr != nil {
		return cfg.tlsConfigErr
	}
	if cfg.compressor == nil {
		return errors.New("compressor not connected")
	}

	atomic.StoreInt32(&s.configFrozen, 1)

	s.server = &http.Server{
		Addr:              cfg.address,
		Handler:           s.buildHandler(cfg),
		ReadHeaderTimeout: cfg.timeout,
		ReadTimeout:       cfg.timeout,
		TLSConfig:         cfg.tlsConfig,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	// Websocket clients stay connected past any write deadline.
	if cfg.liveFeed == nil {
		s.server.WriteTimeout = cfg.timeout
	}

	errCh := make(chan error, 1)
	go func() {
		s.NotifyLoggers(
			types.InfoLevel,
			"Serve: starting API server",
			"component", s.componentMetadata,
			"event", "ServeStart",
			"tls", cfg.tlsConfig != nil,
			"address", cfg.address,
		)
		var err error
		if cfg.tlsConfig != nil {
			err = s.server.ListenAndServeTLS("", "")
		} else {
			err = s.server.ListenAndServe()
		}
		errCh <- err
	}()

	select {
	case <-ctx.Done():
		s.NotifyLoggers(
			types.WarnLevel,
			"Serve: context canceled, shutting down",
			"component", s.componentMetadata,
			"event", "ServeStop",
			"result", "CANCELLED",
		)
		shutdownTimeout := cfg.timeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.NotifyLoggers(
				types.ErrorLevel,
				"Serve: server error",
				"component", s.componentMetadata,
				"event", "ServeError",
				"error", err,
			)
			return err
		}
		return nil
	}
}
