package builder

import (
	"context"
	"net/http"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/httpserver"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

type (
	APIServer       = types.APIServer
	APIServerOption = types.Option[types.APIServer]
	TLSConfig       = types.TLSConfig
)

// NewAPIServer creates the HTTP API server with the specified options.
func NewAPIServer(ctx context.Context, options ...types.Option[types.APIServer]) types.APIServer {
	return httpserver.NewAPIServer(ctx, options...)
}

// APIServerWithAddress sets the IP/port on which the server will listen (e.g., ":8080").
func APIServerWithAddress(address string) types.Option[types.APIServer] {
	return httpserver.WithAddress(address)
}

// APIServerWithHeader adds a default response header to every response.
func APIServerWithHeader(key, value string) types.Option[types.APIServer] {
	return httpserver.WithHeader(key, value)
}

// APIServerWithTimeout sets the read/write timeout for incoming requests.
func APIServerWithTimeout(timeout time.Duration) types.Option[types.APIServer] {
	return httpserver.WithTimeout(timeout)
}

// APIServerWithTLS configures the server to use TLS if tlsCfg.UseTLS == true.
// Otherwise, it reverts to plain HTTP (no TLS).
func APIServerWithTLS(tlsCfg types.TLSConfig) types.Option[types.APIServer] {
	return httpserver.WithTLS(tlsCfg)
}

// APIServerWithStaticHeaders enforces fixed request headers on /api routes.
func APIServerWithStaticHeaders(headers map[string]string) types.Option[types.APIServer] {
	return httpserver.WithStaticHeaders(headers)
}

// APIServerWithAPIKey requires header to carry key on /api routes.
func APIServerWithAPIKey(header, key string) types.Option[types.APIServer] {
	return httpserver.WithAPIKey(header, key)
}

// APIServerWithAuthRequired toggles strict auth enforcement (default true).
func APIServerWithAuthRequired(required bool) types.Option[types.APIServer] {
	return httpserver.WithAuthRequired(required)
}

func APIServerWithMaxBodyBytes(n int64) types.Option[types.APIServer] {
	return httpserver.WithMaxBodyBytes(n)
}

func APIServerWithLogger(loggers ...types.Logger) types.Option[types.APIServer] {
	return httpserver.WithLogger(loggers...)
}

func APIServerWithCompressor(c types.Compressor) types.Option[types.APIServer] {
	return httpserver.WithCompressor(c)
}

func APIServerWithHistory(store types.HistoryStore) types.Option[types.APIServer] {
	return httpserver.WithHistory(store)
}

// APIServerWithLiveFeed mounts h at /api/live.
func APIServerWithLiveFeed(h http.Handler) types.Option[types.APIServer] {
	return httpserver.WithLiveFeed(h)
}

func APIServerWithComponentMetadata(name string, id string) types.Option[types.APIServer] {
	return httpserver.WithComponentMetadata(name, id)
}
