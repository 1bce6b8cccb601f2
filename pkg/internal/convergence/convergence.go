// Package convergence fits a serialized payload to a byte size target by trimming or
// padding its content over a bounded number of iterations.
package convergence

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"
)

// Renderer serializes a payload around content so its size can be measured.
type Renderer func(content string) ([]byte, error)

// Outcome is the last candidate the loop produced.
type Outcome struct {
	Content    string
	Serialized []byte
	Size       int64
	Target     int64
	Iterations int  // adjustments applied
	Converged  bool // final size within tolerance
	Truncated  bool
	Padded     bool
	HitFloor   bool // could not shrink further
	HitPadCap  bool // could not grow further
}

// Fit adjusts content until render(content) is within tolerance of target, or until
// the iteration budget, the truncation floor or the padding cap stops it. The last
// candidate is always returned. A canceled ctx stops the loop between iterations and
// its error is returned alongside the current candidate.
func Fit(ctx context.Context, content string, target int64, render Renderer, opts ...Option) (Outcome, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.normalize()

	if target < 0 {
		target = 0
	}

	floor := cfg.MinContentLength
	if len(content) < floor {
		floor = len(content)
	}

	out := Outcome{Target: target}
	current := content
	padded := 0

	for {
		data, err := render(current)
		if err != nil {
			return out, err
		}
		out.Content = current
		out.Serialized = data
		out.Size = int64(len(data))

		diff := out.Size - target
		if abs64(diff) <= cfg.tolerance(target) {
			out.Converged = true
			return out, nil
		}
		if out.Iterations >= cfg.MaxIterations {
			return out, nil
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}

		if diff > 0 {
			next, ok := shrink(current, diff, floor, cfg.OvershootFactor)
			if !ok {
				out.HitFloor = true
				return out, nil
			}
			current = next
			out.Truncated = true
		} else {
			if padded >= cfg.MaxPadding {
				out.HitPadCap = true
				return out, nil
			}
			add := int(float64(-diff) * cfg.PaddingFactor)
			if add < 1 {
				add = 1
			}
			if padded+add > cfg.MaxPadding {
				add = cfg.MaxPadding - padded
			}
			current += strings.Repeat(" ", add)
			padded += add
			out.Padded = true
		}
		out.Iterations++
	}
}

// shrink drops about overshoot*factor trailing bytes, keeping at least floor bytes and
// cutting on a rune boundary. ok is false when no progress is possible.
func shrink(s string, overshoot int64, floor int, factor float64) (string, bool) {
	if len(s) <= floor {
		return s, false
	}
	cut := int(math.Ceil(float64(overshoot) * factor))
	if cut < 1 {
		cut = 1
	}
	n := len(s) - cut
	if n < floor {
		n = floor
	}
	for n > floor && n < len(s) && !utf8.RuneStart(s[n]) {
		n--
	}
	for n < len(s) && !utf8.RuneStart(s[n]) {
		n++
	}
	if n >= len(s) {
		return s, false
	}
	return s[:n], true
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Within reports whether size is inside the acceptance band around target.
func Within(size, target int64, opts ...Option) bool {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.normalize()
	return abs64(size-target) <= cfg.tolerance(target)
}
