package compressor

import "github.com/joeydtaylor/condenser/pkg/internal/types"

// WithLogger attaches one or more loggers to the compressor.
func WithLogger(loggers ...types.Logger) types.Option[types.Compressor] {
	return func(c types.Compressor) {
		c.ConnectLogger(loggers...)
	}
}

// WithHistory records every processed result in store.
func WithHistory(store types.HistoryStore) types.Option[types.Compressor] {
	return func(c types.Compressor) {
		c.ConnectHistory(store)
	}
}

// WithPublisher announces every processed result on the given publishers.
func WithPublisher(publishers ...types.EventPublisher) types.Option[types.Compressor] {
	return func(c types.Compressor) {
		c.ConnectPublisher(publishers...)
	}
}

func WithDictionarySize(n int) types.Option[types.Compressor] {
	return func(c types.Compressor) {
		c.SetDictionarySize(n)
	}
}

func WithConvergence(cfg types.ConvergenceSettings) types.Option[types.Compressor] {
	return func(c types.Compressor) {
		c.SetConvergence(cfg)
	}
}

// WithRouting toggles per-file-type strategies.
func WithRouting(enabled bool) types.Option[types.Compressor] {
	return func(c types.Compressor) {
		c.SetRouting(enabled)
	}
}

// WithBaseline reports what the named block codec achieves on each upload.
func WithBaseline(algorithm string) types.Option[types.Compressor] {
	return func(c types.Compressor) {
		c.SetBaselineAlgorithm(algorithm)
	}
}

func WithIncludeOriginal(include bool) types.Option[types.Compressor] {
	return func(c types.Compressor) {
		c.SetIncludeOriginal(include)
	}
}

func WithImageFormat(format string) types.Option[types.Compressor] {
	return func(c types.Compressor) {
		c.SetImageFormat(format)
	}
}

// WithComponentMetadata overrides the generated name and id.
func WithComponentMetadata(name string, id string) types.Option[types.Compressor] {
	return func(c types.Compressor) {
		c.SetComponentMetadata(name, id)
	}
}
