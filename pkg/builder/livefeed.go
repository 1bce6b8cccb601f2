package builder

import (
	"context"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/livefeed"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

type LiveFeed = types.LiveFeed

// NewLiveFeed creates the websocket hub behind /api/live.
func NewLiveFeed(ctx context.Context, options ...types.Option[types.LiveFeed]) types.LiveFeed {
	return livefeed.NewHub(ctx, options...)
}

func LiveFeedWithLogger(loggers ...types.Logger) types.Option[types.LiveFeed] {
	return livefeed.WithLogger(loggers...)
}

// LiveFeedWithAllowedOrigins accepts cross-origin upgrades from hosts matching patterns.
func LiveFeedWithAllowedOrigins(patterns ...string) types.Option[types.LiveFeed] {
	return livefeed.WithAllowedOrigins(patterns...)
}

// LiveFeedWithSendBuffer sets how many events may queue per client before drops.
func LiveFeedWithSendBuffer(n int) types.Option[types.LiveFeed] {
	return livefeed.WithSendBuffer(n)
}

func LiveFeedWithMaxConnections(n int) types.Option[types.LiveFeed] {
	return livefeed.WithMaxConnections(n)
}

func LiveFeedWithWriteTimeout(d time.Duration) types.Option[types.LiveFeed] {
	return livefeed.WithWriteTimeout(d)
}
