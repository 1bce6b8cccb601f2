package history

import (
	"context"
	"sync"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

// MemoryStore keeps records in a map. It is the default store and the one tests use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]types.HistoryRecord
	closed  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]types.HistoryRecord)}
}

func (s *MemoryStore) Save(ctx context.Context, rec types.HistoryRecord) error {
	if err := validateID(rec.ID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	rec.Payload = append([]byte(nil), rec.Payload...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (types.HistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return types.HistoryRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return types.HistoryRecord{}, ErrClosed
	}
	rec, ok := s.records[id]
	if !ok {
		return types.HistoryRecord{}, ErrNotFound
	}
	rec.Payload = append([]byte(nil), rec.Payload...)
	return rec, nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]types.HistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrClosed
	}
	out := make([]types.HistoryRecord, 0, len(s.records))
	for _, rec := range s.records {
		rec.Payload = append([]byte(nil), rec.Payload...)
		out = append(out, rec)
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	return applyLimit(out, limit), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.records = nil
	s.mu.Unlock()
	return nil
}
