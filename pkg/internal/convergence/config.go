package convergence

import (
	"math"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

const (
	DefaultAbsoluteTolerance = 10
	DefaultRelativeTolerance = 0.05
	DefaultMaxIterations     = 20
	DefaultMinContentLength  = 100
	DefaultOvershootFactor   = 1.2
	DefaultPaddingFactor     = 0.9
	DefaultMaxPadding        = 1 << 20
)

// Config bounds the loop. A size within max(AbsoluteTolerance, RelativeTolerance*target)
// of the target is accepted.
type Config struct {
	AbsoluteTolerance int64
	RelativeTolerance float64
	MaxIterations     int
	MinContentLength  int     // bytes of content never truncated away
	OvershootFactor   float64 // > 1
	PaddingFactor     float64 // in (0, 1)
	MaxPadding        int     // total bytes of padding allowed
}

// Option adjusts a Config.
type Option func(*Config)

// DefaultConfig returns the standard loop bounds.
func DefaultConfig() Config {
	return Config{
		AbsoluteTolerance: DefaultAbsoluteTolerance,
		RelativeTolerance: DefaultRelativeTolerance,
		MaxIterations:     DefaultMaxIterations,
		MinContentLength:  DefaultMinContentLength,
		OvershootFactor:   DefaultOvershootFactor,
		PaddingFactor:     DefaultPaddingFactor,
		MaxPadding:        DefaultMaxPadding,
	}
}

func WithTolerance(absolute int64, relative float64) Option {
	return func(c *Config) {
		c.AbsoluteTolerance = absolute
		c.RelativeTolerance = relative
	}
}

func WithMaxIterations(n int) Option {
	return func(c *Config) { c.MaxIterations = n }
}

func WithMinContentLength(n int) Option {
	return func(c *Config) { c.MinContentLength = n }
}

func WithFactors(overshoot, padding float64) Option {
	return func(c *Config) {
		c.OvershootFactor = overshoot
		c.PaddingFactor = padding
	}
}

func WithMaxPadding(n int) Option {
	return func(c *Config) { c.MaxPadding = n }
}

// FromSettings maps non-zero settings onto options.
func FromSettings(s types.ConvergenceSettings) []Option {
	var opts []Option
	if s.AbsoluteTolerance > 0 || s.RelativeTolerance > 0 {
		abs, rel := s.AbsoluteTolerance, s.RelativeTolerance
		opts = append(opts, func(c *Config) {
			if abs > 0 {
				c.AbsoluteTolerance = abs
			}
			if rel > 0 {
				c.RelativeTolerance = rel
			}
		})
	}
	if s.MaxIterations > 0 {
		opts = append(opts, WithMaxIterations(s.MaxIterations))
	}
	if s.MinContentLength > 0 {
		opts = append(opts, WithMinContentLength(s.MinContentLength))
	}
	if s.OvershootFactor > 0 || s.PaddingFactor > 0 {
		over, pad := s.OvershootFactor, s.PaddingFactor
		opts = append(opts, func(c *Config) {
			if over > 0 {
				c.OvershootFactor = over
			}
			if pad > 0 {
				c.PaddingFactor = pad
			}
		})
	}
	if s.MaxPadding > 0 {
		opts = append(opts, WithMaxPadding(s.MaxPadding))
	}
	return opts
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	if c.AbsoluteTolerance < 0 {
		c.AbsoluteTolerance = 0
	}
	if c.RelativeTolerance < 0 || c.RelativeTolerance >= 1 {
		c.RelativeTolerance = DefaultRelativeTolerance
	}
	if c.MaxIterations < 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.MinContentLength < 0 {
		c.MinContentLength = 0
	}
	if c.OvershootFactor <= 1 {
		c.OvershootFactor = DefaultOvershootFactor
	}
	if c.PaddingFactor <= 0 || c.PaddingFactor >= 1 {
		c.PaddingFactor = DefaultPaddingFactor
	}
	if c.MaxPadding < 0 {
		c.MaxPadding = 0
	}
}

func (c Config) tolerance(target int64) int64 {
	rel := int64(math.Round(c.RelativeTolerance * float64(target)))
	if rel > c.AbsoluteTolerance {
		return rel
	}
	return c.AbsoluteTolerance
}
