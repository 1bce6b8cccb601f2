package compressor

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"unicode"

	"github.com/joeydtaylor/condenser/pkg/internal/mediacodec"
	"github.com/joeydtaylor/condenser/pkg/internal/tokencodec"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

var (
	// ErrLossyResult is returned by Restore for re-encoded or subsampled images.
	ErrLossyResult = errors.New("result was produced by a lossy method")

	// ErrRoundTripMismatch is returned by CheckRestored.
	ErrRoundTripMismatch = errors.New("restored content does not match the original")
)

// Restore returns the content res was made from, as far as the method allows.
func (c *compressor) Restore(ctx context.Context, res types.CompressionResult) (types.DecompressionResult, error) {
	switch res.Method {
	case types.MethodDictionary:
		return c.Decompress(ctx, []byte(res.CompressedContent))
	case types.MethodRunLength, types.MethodNone, types.MethodPassthrough:
	default:
		return types.DecompressionResult{}, fmt.Errorf("%w: %s", ErrLossyResult, res.Method)
	}

	c.freeze()
	if err := c.checkRunning(); err != nil {
		return types.DecompressionResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return types.DecompressionResult{}, err
	}

	raw, err := base64.StdEncoding.DecodeString(res.CompressedContent)
	if err != nil {
		return types.DecompressionResult{}, tokencodec.NewFormatError("content is not valid base64", err)
	}
	if res.Method == types.MethodRunLength {
		if raw, err = mediacodec.ExpandRunLength(raw); err != nil {
			return types.DecompressionResult{}, tokencodec.NewFormatError("corrupt run-length content", err)
		}
	}

	c.NotifyLoggers(types.DebugLevel, "Restored binary result",
		"component", c.componentMetadata,
		"event", "Restore",
		"method", string(res.Method),
		"file", res.FileName,
		"size", len(raw),
	)
	return types.DecompressionResult{FileName: res.FileName, Content: raw}, nil
}

// CheckRestored verifies restored against original for a result made from original.
// Exact results must match byte for byte. A padded dictionary payload restores the
// original plus trailing spaces. A truncated one restores a prefix of the original, except
// that its final token may be cut.
func CheckRestored(original, restored []byte, res types.CompressionResult) error {
	if res.Method != types.MethodDictionary {
		if !bytes.Equal(original, restored) {
			return ErrRoundTripMismatch
		}
		return nil
	}

	got := bytes.TrimRight(restored, " ")
	if !res.Truncated {
		if !bytes.Equal(got, bytes.TrimRight(original, " ")) {
			return ErrRoundTripMismatch
		}
		return nil
	}

	if bytes.HasPrefix(original, got) {
		return nil
	}
	if i := bytes.LastIndexFunc(got, unicode.IsSpace); i >= 0 && bytes.HasPrefix(original, got[:i+1]) {
		return nil
	}
	return ErrRoundTripMismatch
}
