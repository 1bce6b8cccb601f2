// Package compressor runs the size-targeted compression pipeline: type routing, the
// dictionary codec with its size convergence loop, media strategies and result assembly.
package compressor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/blockcodec"
	"github.com/joeydtaylor/condenser/pkg/internal/mediacodec"
	"github.com/joeydtaylor/condenser/pkg/internal/tokencodec"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"github.com/joeydtaylor/condenser/pkg/internal/utils"
)

// ErrStopped is returned by calls made after the compressor's context ended.
var ErrStopped = errors.New("compressor stopped")

// compressor implements types.Compressor.
type compressor struct {
	componentMetadata types.ComponentMetadata

	// ctx bounds the component's lifetime; once it is done every call fails.
	ctx context.Context

	dictionarySize  int
	convergence     types.ConvergenceSettings
	routing         bool
	baseline        blockcodec.Algorithm
	includeOriginal bool
	imageFormat     string

	history     types.HistoryStore
	publishers  []types.EventPublisher
	collabsLock sync.Mutex

	loggers     []types.Logger
	loggersLock sync.Mutex

	configLock   sync.Mutex
	configFrozen int32

	now func() time.Time
}

// NewCompressor constructs a compressor with defaults: 50 word dictionary, routing by file
// type, no baseline codec, JPEG image output.
func NewCompressor(ctx context.Context, options ...types.Option[types.Compressor]) types.Compressor {
	if ctx == nil {
		ctx = context.Background()
	}
	c := &compressor{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "COMPRESSOR",
		},
		ctx:            ctx,
		dictionarySize: tokencodec.DefaultDictionarySize,
		routing:        true,
		baseline:       blockcodec.None,
		imageFormat:    mediacodec.FormatJPEG,
		now:            time.Now,
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

func (c *compressor) isFrozen() bool {
	return atomic.LoadInt32(&c.configFrozen) == 1
}

// checkRunning reports ErrStopped once the constructor context is done.
func (c *compressor) checkRunning() error {
	if err := c.ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStopped, err)
	}
	return nil
}

func (c *compressor) freeze() {
	atomic.StoreInt32(&c.configFrozen, 1)
}
