package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/joeydtaylor/condenser/pkg/internal/history"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"github.com/joeydtaylor/condenser/pkg/internal/utils"
)

// decompressRequest accepts the payload either as a JSON string holding the
// serialized payload or as the payload object itself.
type decompressRequest struct {
	Payload json.RawMessage `json:"payload"`
}

func (s *apiServer) buildHandler(cfg serverConfig) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /api/compress", func(w http.ResponseWriter, r *http.Request) {
		s.handleCompress(w, r, cfg)
	})
	api.HandleFunc("POST /api/decompress", func(w http.ResponseWriter, r *http.Request) {
		s.handleDecompress(w, r, cfg)
	})
	api.HandleFunc("GET /api/history", func(w http.ResponseWriter, r *http.Request) {
		s.handleHistoryList(w, r, cfg)
	})
	api.HandleFunc("GET /api/history/export", func(w http.ResponseWriter, r *http.Request) {
		s.handleHistoryExport(w, r, cfg)
	})
	api.HandleFunc("GET /api/history/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.handleHistoryGet(w, r, cfg)
	})
	api.HandleFunc("DELETE /api/history/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.handleHistoryDelete(w, r, cfg)
	})
	api.HandleFunc("GET /api/stats", func(w http.ResponseWriter, r *http.Request) {
		s.handleStats(w, r, cfg)
	})
	if cfg.liveFeed != nil {
		api.Handle("GET /api/live", cfg.liveFeed)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		if err := s.authorizeRequest(r, cfg); err != nil {
			s.NotifyLoggers(
				types.WarnLevel,
				"Auth: request rejected",
				"component", s.componentMetadata,
				"event", "AuthReject",
				"path", r.URL.Path,
				"error", err,
			)
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
			return
		}
		api.ServeHTTP(w, r)
	})

	return withDefaultHeaders(mux, cfg.headers)
}

func withDefaultHeaders(next http.Handler, headers map[string]string) http.Handler {
	if len(headers) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *apiServer) handleCompress(w http.ResponseWriter, r *http.Request, cfg serverConfig) {
	if cfg.compressor == nil {
		s.writeError(w, r, unavailable("compressor not connected"))
		return
	}

	var req types.CompressionRequest
	if err := utils.DecodeJSON(http.MaxBytesReader(w, r.Body, cfg.maxBodyBytes), &req); err != nil {
		if se := toServerError(err); se.StatusCode == http.StatusRequestEntityTooLarge {
			s.writeError(w, r, se)
			return
		}
		s.writeError(w, r, badRequest("error parsing request: "+err.Error(), err))
		return
	}

	res, err := cfg.compressor.Process(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *apiServer) handleDecompress(w http.ResponseWriter, r *http.Request, cfg serverConfig) {
	if cfg.compressor == nil {
		s.writeError(w, r, unavailable("compressor not connected"))
		return
	}

	var req decompressRequest
	if err := utils.DecodeJSON(http.MaxBytesReader(w, r.Body, cfg.maxBodyBytes), &req); err != nil {
		if se := toServerError(err); se.StatusCode == http.StatusRequestEntityTooLarge {
			s.writeError(w, r, se)
			return
		}
		s.writeError(w, r, badRequest("error parsing request: "+err.Error(), err))
		return
	}

	payload, err := payloadBytes(req.Payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := cfg.compressor.Decompress(r.Context(), payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func payloadBytes(raw json.RawMessage) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, badRequest("payload is required", nil)
	}
	if raw[0] != '"' {
		return raw, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, badRequest("payload must be a string or an object", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, badRequest("payload is required", nil)
	}
	return []byte(text), nil
}

func (s *apiServer) handleHistoryList(w http.ResponseWriter, r *http.Request, cfg serverConfig) {
	if cfg.history == nil {
		s.writeError(w, r, unavailable("history not connected"))
		return
	}

	limit := DefaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, badRequest("limit must be a non-negative integer", err))
			return
		}
		limit = n
	}

	recs, err := cfg.history.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history.WithoutPayload(recs))
}

func (s *apiServer) handleHistoryGet(w http.ResponseWriter, r *http.Request, cfg serverConfig) {
	if cfg.history == nil {
		s.writeError(w, r, unavailable("history not connected"))
		return
	}
	rec, err := cfg.history.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *apiServer) handleHistoryDelete(w http.ResponseWriter, r *http.Request, cfg serverConfig) {
	if cfg.history == nil {
		s.writeError(w, r, unavailable("history not connected"))
		return
	}
	id := r.PathValue("id")
	if err := cfg.history.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.NotifyLoggers(
		types.InfoLevel,
		"Deleted history record",
		"component", s.componentMetadata,
		"event", "DeleteHistory",
		"request_id", id,
	)
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleHistoryExport(w http.ResponseWriter, r *http.Request, cfg serverConfig) {
	if cfg.history == nil {
		s.writeError(w, r, unavailable("history not connected"))
		return
	}
	recs, err := cfg.history.List(r.Context(), 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := history.ExportParquet(&buf, recs); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.apache.parquet")
	w.Header().Set("Content-Disposition", `attachment; filename="history.parquet"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *apiServer) handleStats(w http.ResponseWriter, r *http.Request, cfg serverConfig) {
	if cfg.history == nil {
		s.writeError(w, r, unavailable("history not connected"))
		return
	}
	recs, err := cfg.history.List(r.Context(), 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history.ComputeStats(recs))
}
