package history

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/joeydtaylor/condenser/pkg/internal/blockcodec"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

const pebblePrefix = "history/"

// PebbleStore keeps one key per record under "history/<id>" in a pebble database.
type PebbleStore struct {
	db    *pebble.DB
	codec blockcodec.Algorithm

	mu     sync.RWMutex
	closed bool
}

// OpenPebbleStore opens (or creates) the database in dir. Payloads are sealed with codec;
// blockcodec.None stores them uncompressed.
func OpenPebbleStore(dir string, codec blockcodec.Algorithm) (*PebbleStore, error) {
	if dir == "" {
		return nil, errors.New("history: pebble directory is required")
	}
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble at %s: %w", dir, err)
	}
	return &PebbleStore{db: db, codec: codec}, nil
}

func pebbleKey(id string) []byte {
	return []byte(pebblePrefix + id)
}

// prefixUpperBound returns the smallest key greater than every key with the prefix.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func (s *PebbleStore) Save(ctx context.Context, rec types.HistoryRecord) error {
	if err := validateID(rec.ID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeRecord(rec, s.codec)
	if err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return s.db.Set(pebbleKey(rec.ID), data, pebble.Sync)
}

func (s *PebbleStore) Get(ctx context.Context, id string) (types.HistoryRecord, error) {
	if err := validateID(id); err != nil {
		return types.HistoryRecord{}, err
	}
	if err := ctx.Err(); err != nil {
		return types.HistoryRecord{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return types.HistoryRecord{}, ErrClosed
	}

	val, closer, err := s.db.Get(pebbleKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return types.HistoryRecord{}, ErrNotFound
	}
	if err != nil {
		return types.HistoryRecord{}, err
	}
	data := append([]byte(nil), val...)
	_ = closer.Close()

	return decodeRecord(data)
}

func (s *PebbleStore) List(ctx context.Context, limit int) ([]types.HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	lower := []byte(pebblePrefix)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: prefixUpperBound(lower),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []types.HistoryRecord
	for iter.First(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := decodeRecord(append([]byte(nil), iter.Value()...))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}

	sortNewestFirst(out)
	return applyLimit(out, limit), nil
}

func (s *PebbleStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return s.db.Delete(pebbleKey(id), pebble.Sync)
}

func (s *PebbleStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
