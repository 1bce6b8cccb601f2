package types

import (
	"net/http"
	"time"
)

// LiveFeed streams compression events to websocket clients. It is mounted as an
// http.Handler and attached to a compressor as an EventPublisher.
type LiveFeed interface {
	http.Handler
	EventPublisher

	ConnectLogger(...Logger)

	SetAllowedOrigins(patterns ...string)
	SetSendBuffer(n int)
	SetMaxConnections(n int)
	SetWriteTimeout(d time.Duration)

	// ConnectionCount reports currently attached clients.
	ConnectionCount() int

	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
	NotifyLoggers(level LogLevel, msg string, keysAndValues ...interface{})
}
