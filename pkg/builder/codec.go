package builder

import (
	"github.com/joeydtaylor/condenser/pkg/internal/blockcodec"
	"github.com/joeydtaylor/condenser/pkg/internal/tokencodec"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

type FormatError = tokencodec.FormatError

// ErrInvalidFormat matches every payload rejection via errors.Is.
var ErrInvalidFormat = tokencodec.ErrInvalidFormat

// ParsePayload strictly decodes a serialized dictionary payload.
func ParsePayload(data []byte) (types.Payload, error) {
	return tokencodec.ParsePayload(data)
}

// Baseline compresses data with alg and reports the achieved size and ratio.
func Baseline(data []byte, alg Codec) (types.Baseline, error) {
	return blockcodec.Baseline(data, alg)
}

// Codecs lists the block codecs other than none.
func Codecs() []Codec {
	return blockcodec.Algorithms()
}
