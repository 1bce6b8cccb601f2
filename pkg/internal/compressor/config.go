package compressor

import (
	"strings"

	"github.com/joeydtaylor/condenser/pkg/internal/blockcodec"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

// SetDictionarySize caps the number of coded words. n <= 0 keeps the default.
func (c *compressor) SetDictionarySize(n int) {
	c.requireNotFrozen("SetDictionarySize")
	if n <= 0 {
		return
	}
	c.configLock.Lock()
	c.dictionarySize = n
	c.configLock.Unlock()
}

// SetConvergence tunes the size fitting loop.
func (c *compressor) SetConvergence(cfg types.ConvergenceSettings) {
	c.requireNotFrozen("SetConvergence")
	c.configLock.Lock()
	c.convergence = cfg
	c.configLock.Unlock()
}

// SetRouting toggles per-type strategies. When disabled every file goes through the
// dictionary codec.
func (c *compressor) SetRouting(enabled bool) {
	c.requireNotFrozen("SetRouting")
	c.configLock.Lock()
	c.routing = enabled
	c.configLock.Unlock()
}

// SetBaselineAlgorithm selects the block codec used to report a reference size.
// Unknown names disable the baseline and are logged.
func (c *compressor) SetBaselineAlgorithm(name string) {
	c.requireNotFrozen("SetBaselineAlgorithm")
	alg, err := blockcodec.ParseAlgorithm(name)
	if err != nil {
		c.NotifyLoggers(types.WarnLevel, "Unknown baseline algorithm, baseline disabled",
			"component", c.componentMetadata, "event", "SetBaselineAlgorithm", "error", err)
		alg = blockcodec.None
	}
	c.configLock.Lock()
	c.baseline = alg
	c.configLock.Unlock()
}

// SetIncludeOriginal controls whether results carry the original content.
func (c *compressor) SetIncludeOriginal(include bool) {
	c.requireNotFrozen("SetIncludeOriginal")
	c.configLock.Lock()
	c.includeOriginal = include
	c.configLock.Unlock()
}

// SetImageFormat selects the image output format: jpeg, png or original.
func (c *compressor) SetImageFormat(format string) {
	c.requireNotFrozen("SetImageFormat")
	c.configLock.Lock()
	c.imageFormat = strings.ToLower(strings.TrimSpace(format))
	c.configLock.Unlock()
}

type pipelineConfig struct {
	dictionarySize  int
	convergence     types.ConvergenceSettings
	routing         bool
	baseline        blockcodec.Algorithm
	includeOriginal bool
	imageFormat     string
}

func (c *compressor) snapshotConfig() pipelineConfig {
	c.configLock.Lock()
	defer c.configLock.Unlock()
	return pipelineConfig{
		dictionarySize:  c.dictionarySize,
		convergence:     c.convergence,
		routing:         c.routing,
		baseline:        c.baseline,
		includeOriginal: c.includeOriginal,
		imageFormat:     c.imageFormat,
	}
}
