package livefeed

import (
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

func WithLogger(loggers ...types.Logger) types.Option[types.LiveFeed] {
	return func(h types.LiveFeed) {
		h.ConnectLogger(loggers...)
	}
}

func WithAllowedOrigins(patterns ...string) types.Option[types.LiveFeed] {
	return func(h types.LiveFeed) {
		h.SetAllowedOrigins(patterns...)
	}
}

func WithSendBuffer(n int) types.Option[types.LiveFeed] {
	return func(h types.LiveFeed) {
		h.SetSendBuffer(n)
	}
}

func WithMaxConnections(n int) types.Option[types.LiveFeed] {
	return func(h types.LiveFeed) {
		h.SetMaxConnections(n)
	}
}

func WithWriteTimeout(d time.Duration) types.Option[types.LiveFeed] {
	return func(h types.LiveFeed) {
		h.SetWriteTimeout(d)
	}
}

func WithComponentMetadata(name string, id string) types.Option[types.LiveFeed] {
	return func(h types.LiveFeed) {
		h.SetComponentMetadata(name, id)
	}
}
