// Package history persists compression records and derives analytics from them.
//
// Three stores share the types.HistoryStore contract: an in-process map, a pebble
// database on local disk and an S3 bucket. The durable stores keep each record as JSON
// with its payload block-compressed by the configured codec.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/joeydtaylor/condenser/pkg/internal/blockcodec"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

var (
	// ErrNotFound is returned by Get and Delete for unknown IDs.
	ErrNotFound = errors.New("history: record not found")
	// ErrInvalidID is returned for empty IDs or IDs containing a path separator.
	ErrInvalidID = errors.New("history: invalid record id")
	// ErrClosed is returned by every call after Close.
	ErrClosed = errors.New("history: store closed")
)

// DefaultCodec compresses payloads at rest.
const DefaultCodec = blockcodec.Zstd

func validateID(id string) error {
	if id == "" {
		return ErrInvalidID
	}
	for i := 0; i < len(id); i++ {
		if id[i] == '/' || id[i] == '\\' {
			return fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}
	return nil
}

// sortNewestFirst orders by CreatedAt descending, then ID ascending.
func sortNewestFirst(recs []types.HistoryRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID < recs[j].ID
	})
}

func applyLimit(recs []types.HistoryRecord, limit int) []types.HistoryRecord {
	if limit > 0 && len(recs) > limit {
		return recs[:limit]
	}
	return recs
}

// encodeRecord serializes rec with its payload sealed by alg.
func encodeRecord(rec types.HistoryRecord, alg blockcodec.Algorithm) ([]byte, error) {
	sealed, err := blockcodec.Seal(rec.Payload, alg)
	if err != nil {
		return nil, fmt.Errorf("seal payload: %w", err)
	}
	rec.Payload = sealed
	return json.Marshal(rec)
}

func decodeRecord(data []byte) (types.HistoryRecord, error) {
	var rec types.HistoryRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return types.HistoryRecord{}, fmt.Errorf("decode record: %w", err)
	}
	if len(rec.Payload) > 0 {
		payload, err := blockcodec.Open(rec.Payload)
		if err != nil {
			return types.HistoryRecord{}, fmt.Errorf("open payload of %s: %w", rec.ID, err)
		}
		if len(payload) == 0 {
			payload = nil
		}
		rec.Payload = payload
	}
	return rec, nil
}

// WithoutPayload returns copies of recs with their payloads dropped, for listings.
func WithoutPayload(recs []types.HistoryRecord) []types.HistoryRecord {
	out := make([]types.HistoryRecord, len(recs))
	for i, r := range recs {
		r.Payload = nil
		out[i] = r
	}
	return out
}
