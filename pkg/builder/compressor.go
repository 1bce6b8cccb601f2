package builder

import (
	"context"

	"github.com/joeydtaylor/condenser/pkg/internal/compressor"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

type (
	Compressor          = types.Compressor
	CompressionRequest  = types.CompressionRequest
	CompressionResult   = types.CompressionResult
	DecompressionResult = types.DecompressionResult
	Target              = types.Target
	TargetMode          = types.TargetMode
	ConvergenceSettings = types.ConvergenceSettings
	Payload             = types.Payload
)

const (
	TargetQuality = types.TargetQuality
	TargetSize    = types.TargetSize

	MethodDictionary  = types.MethodDictionary
	MethodImage       = types.MethodImage
	MethodSubsample   = types.MethodSubsample
	MethodRunLength   = types.MethodRunLength
	MethodNone        = types.MethodNone
	MethodPassthrough = types.MethodPassthrough
)

var (
	ErrLossyResult       = compressor.ErrLossyResult
	ErrRoundTripMismatch = compressor.ErrRoundTripMismatch
	ErrCompressorStopped = compressor.ErrStopped
)

// CheckRestored verifies content restored from res against the original upload.
func CheckRestored(original, restored []byte, res CompressionResult) error {
	return compressor.CheckRestored(original, restored, res)
}

// QualityTarget asks for a reduction of level percent of the original size.
func QualityTarget(level int) Target {
	return Target{Mode: TargetQuality, Level: level}
}

// SizeTarget asks for an output of roughly n bytes.
func SizeTarget(n int64) Target {
	return Target{Mode: TargetSize, Bytes: n}
}

// NewCompressor creates the compression pipeline with the specified options.
func NewCompressor(ctx context.Context, options ...types.Option[types.Compressor]) types.Compressor {
	return compressor.NewCompressor(ctx, options...)
}

func CompressorWithLogger(loggers ...types.Logger) types.Option[types.Compressor] {
	return compressor.WithLogger(loggers...)
}

// CompressorWithHistory saves every processed result to store.
func CompressorWithHistory(store types.HistoryStore) types.Option[types.Compressor] {
	return compressor.WithHistory(store)
}

// CompressorWithPublisher announces every processed result to the publishers.
func CompressorWithPublisher(publishers ...types.EventPublisher) types.Option[types.Compressor] {
	return compressor.WithPublisher(publishers...)
}

// CompressorWithDictionarySize sets how many words the dictionary holds.
func CompressorWithDictionarySize(n int) types.Option[types.Compressor] {
	return compressor.WithDictionarySize(n)
}

func CompressorWithConvergence(cfg types.ConvergenceSettings) types.Option[types.Compressor] {
	return compressor.WithConvergence(cfg)
}

// CompressorWithRouting toggles per-file-type strategies. When off, every file goes
// through the dictionary codec.
func CompressorWithRouting(enabled bool) types.Option[types.Compressor] {
	return compressor.WithRouting(enabled)
}

// CompressorWithBaseline reports what algorithm ("zstd", "gzip", ...) achieves on each input.
func CompressorWithBaseline(algorithm string) types.Option[types.Compressor] {
	return compressor.WithBaseline(algorithm)
}

func CompressorWithIncludeOriginal(include bool) types.Option[types.Compressor] {
	return compressor.WithIncludeOriginal(include)
}

// CompressorWithImageFormat selects "jpeg", "png" or "original" for image output.
func CompressorWithImageFormat(format string) types.Option[types.Compressor] {
	return compressor.WithImageFormat(format)
}

func CompressorWithComponentMetadata(name string, id string) types.Option[types.Compressor] {
	return compressor.WithComponentMetadata(name, id)
}
