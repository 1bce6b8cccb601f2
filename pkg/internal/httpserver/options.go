package httpserver

import (
	"net/http"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

func WithAddress(address string) types.Option[types.APIServer] {
	return func(s types.APIServer) { s.SetAddress(address) }
}

func WithHeader(key, value string) types.Option[types.APIServer] {
	return func(s types.APIServer) { s.AddHeader(key, value) }
}

func WithTimeout(timeout time.Duration) types.Option[types.APIServer] {
	return func(s types.APIServer) { s.SetTimeout(timeout) }
}

func WithTLS(tlsCfg types.TLSConfig) types.Option[types.APIServer] {
	return func(s types.APIServer) { s.SetTLSConfig(tlsCfg) }
}

func WithStaticHeaders(headers map[string]string) types.Option[types.APIServer] {
	return func(s types.APIServer) { s.SetStaticHeaders(headers) }
}

// WithAPIKey requires header to carry key on every /api request.
func WithAPIKey(header, key string) types.Option[types.APIServer] {
	return func(s types.APIServer) { s.SetStaticHeaders(map[string]string{header: key}) }
}

func WithAuthRequired(required bool) types.Option[types.APIServer] {
	return func(s types.APIServer) { s.SetAuthRequired(required) }
}

func WithMaxBodyBytes(n int64) types.Option[types.APIServer] {
	return func(s types.APIServer) { s.SetMaxBodyBytes(n) }
}

func WithLogger(loggers ...types.Logger) types.Option[types.APIServer] {
	return func(s types.APIServer) { s.ConnectLogger(loggers...) }
}

func WithCompressor(c types.Compressor) types.Option[types.APIServer] {
	return func(s types.APIServer) { s.ConnectCompressor(c) }
}

func WithHistory(store types.HistoryStore) types.Option[types.APIServer] {
	return func(s types.APIServer) { s.ConnectHistory(store) }
}

func WithLiveFeed(h http.Handler) types.Option[types.APIServer] {
	return func(s types.APIServer) { s.ConnectLiveFeed(h) }
}

func WithComponentMetadata(name string, id string) types.Option[types.APIServer] {
	return func(s types.APIServer) { s.SetComponentMetadata(name, id) }
}
