// httpserver.go
package types

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// HTTPServerResponse is what a route handler hands back to the server for writing.
type HTTPServerResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte // Raw bytes to be sent directly to the client
}

// HTTPServerError encapsulates server-side errors with an HTTP status code.
type HTTPServerError struct {
	StatusCode int
	Err        error
	Message    string
}

func (e *HTTPServerError) Error() string {
	return fmt.Sprintf("HTTP %d: %s, %v", e.StatusCode, e.Message, e.Err)
}

func (e *HTTPServerError) Unwrap() error {
	return e.Err
}

// APIServer exposes the compression service over HTTP.
//
// Routes are fixed; collaborators are attached before Serve. Once Serve is called the
// configuration is frozen and any setter panics.
type APIServer interface {
	// Serve listens on the configured address until ctx is canceled.
	Serve(ctx context.Context) error

	// Handler returns the routed handler without listening. Useful for embedding and tests.
	Handler() http.Handler

	ConnectLogger(...Logger)
	ConnectCompressor(Compressor)
	ConnectHistory(HistoryStore)
	ConnectLiveFeed(http.Handler)

	SetAddress(address string)
	AddHeader(key, value string)
	SetTimeout(timeout time.Duration)
	SetTLSConfig(tlsCfg TLSConfig)
	SetStaticHeaders(headers map[string]string)
	SetAuthRequired(required bool)
	SetMaxBodyBytes(n int64)

	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
	NotifyLoggers(level LogLevel, msg string, keysAndValues ...interface{})
}
