package builder

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeydtaylor/condenser/pkg/internal/blockcodec"
	"github.com/joeydtaylor/condenser/pkg/internal/history"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

type (
	HistoryStore  = types.HistoryStore
	HistoryRecord = types.HistoryRecord
	Stats         = types.Stats
	Codec         = blockcodec.Algorithm
)

var (
	ErrHistoryNotFound = history.ErrNotFound
	ErrHistoryClosed   = history.ErrClosed
)

// ParseCodec accepts none, deflate (or gzip), snappy, zstd, brotli and lz4.
func ParseCodec(name string) (Codec, error) {
	return blockcodec.ParseAlgorithm(name)
}

// NewMemoryHistory keeps history in process memory.
func NewMemoryHistory() types.HistoryStore {
	return history.NewMemoryStore()
}

// OpenPebbleHistory opens a history database in dir, compressing payloads with codec.
func OpenPebbleHistory(dir string, codec Codec) (types.HistoryStore, error) {
	s, err := history.OpenPebbleStore(dir, codec)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewS3History keeps one object per record under bucket/prefix.
func NewS3History(cli *s3.Client, bucket, prefix string, codec Codec) (types.HistoryStore, error) {
	s, err := history.NewS3Store(cli, bucket, prefix, codec)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ComputeStats aggregates records the way /api/stats reports them.
func ComputeStats(recs []types.HistoryRecord) types.Stats {
	return history.ComputeStats(recs)
}

// ExportHistory writes every record in store to w as parquet.
func ExportHistory(ctx context.Context, store types.HistoryStore, w io.Writer) (int, error) {
	recs, err := store.List(ctx, 0)
	if err != nil {
		return 0, err
	}
	return len(recs), history.ExportParquet(w, recs)
}
