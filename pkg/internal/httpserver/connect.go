package httpserver

import (
	"net/http"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

// ConnectLogger attaches logger(s).
func (s *apiServer) ConnectLogger(loggers ...types.Logger) {
	s.requireNotFrozen("ConnectLogger")

	s.loggersLock.Lock()
	defer s.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			s.loggers = append(s.loggers, l)
		}
	}
}

// ConnectCompressor sets the pipeline behind /api/compress and /api/decompress.
func (s *apiServer) ConnectCompressor(c types.Compressor) {
	s.requireNotFrozen("ConnectCompressor")
	s.collabsMu.Lock()
	s.compressor = c
	s.collabsMu.Unlock()
}

// ConnectHistory sets the store read by the history and stats routes.
func (s *apiServer) ConnectHistory(store types.HistoryStore) {
	s.requireNotFrozen("ConnectHistory")
	s.collabsMu.Lock()
	s.history = store
	s.collabsMu.Unlock()
}

// ConnectLiveFeed mounts h at /api/live.
func (s *apiServer) ConnectLiveFeed(h http.Handler) {
	s.requireNotFrozen("ConnectLiveFeed")
	s.collabsMu.Lock()
	s.liveFeed = h
	s.collabsMu.Unlock()
}
