package compressor

import (
	"errors"
	"fmt"
	"math"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"github.com/joeydtaylor/condenser/pkg/internal/utils"
)

// DefaultLevel applies when a request carries no target at all.
const DefaultLevel = 50

var ErrInvalidTarget = errors.New("invalid compression target")

// ResolveTarget turns t into an absolute byte target for an input of originalSize bytes.
// It also returns the compression level recorded in payload metadata: the requested level
// in quality mode, the implied reduction percentage in size mode.
func ResolveTarget(t types.Target, originalSize int64) (target int64, level int, err error) {
	mode := t.Mode
	if mode == "" {
		switch {
		case t.Bytes > 0:
			mode = types.TargetSize
		case t.Level == 0:
			t.Level = DefaultLevel
			mode = types.TargetQuality
		default:
			mode = types.TargetQuality
		}
	}

	switch mode {
	case types.TargetQuality:
		if t.Level < 0 || t.Level > 100 {
			return 0, 0, fmt.Errorf("%w: level %d outside 0..100", ErrInvalidTarget, t.Level)
		}
		target = int64(math.Round(float64(originalSize) * (1 - float64(t.Level)/100)))
		return target, t.Level, nil

	case types.TargetSize:
		if t.Bytes <= 0 {
			return 0, 0, fmt.Errorf("%w: size target must be positive, got %d", ErrInvalidTarget, t.Bytes)
		}
		if originalSize > 0 {
			reduction := math.Round((1 - float64(t.Bytes)/float64(originalSize)) * 100)
			level = int(utils.Clamp(reduction, 0, 100))
		}
		return t.Bytes, level, nil

	default:
		return 0, 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidTarget, t.Mode)
	}
}
