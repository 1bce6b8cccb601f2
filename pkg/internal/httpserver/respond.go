package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joeydtaylor/condenser/pkg/internal/compressor"
	"github.com/joeydtaylor/condenser/pkg/internal/history"
	"github.com/joeydtaylor/condenser/pkg/internal/tokencodec"
	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(msg string, err error) *types.HTTPServerError {
	return &types.HTTPServerError{StatusCode: http.StatusBadRequest, Message: msg, Err: err}
}

func unavailable(msg string) *types.HTTPServerError {
	return &types.HTTPServerError{StatusCode: http.StatusServiceUnavailable, Message: msg, Err: errors.New(msg)}
}

// toServerError maps domain errors onto status codes.
func toServerError(err error) *types.HTTPServerError {
	var serverErr *types.HTTPServerError
	if errors.As(err, &serverErr) {
		return serverErr
	}

	var tooLarge *http.MaxBytesError
	var formatErr *tokencodec.FormatError
	switch {
	case errors.As(err, &tooLarge):
		return &types.HTTPServerError{StatusCode: http.StatusRequestEntityTooLarge, Message: "request body too large", Err: err}
	case errors.As(err, &formatErr), errors.Is(err, tokencodec.ErrInvalidFormat):
		return &types.HTTPServerError{StatusCode: http.StatusUnprocessableEntity, Message: tokencodec.ErrInvalidFormat.Error(), Err: err}
	case errors.Is(err, compressor.ErrInvalidTarget):
		return &types.HTTPServerError{StatusCode: http.StatusBadRequest, Message: err.Error(), Err: err}
	case errors.Is(err, history.ErrNotFound):
		return &types.HTTPServerError{StatusCode: http.StatusNotFound, Message: "record not found", Err: err}
	case errors.Is(err, history.ErrInvalidID):
		return &types.HTTPServerError{StatusCode: http.StatusBadRequest, Message: "invalid record id", Err: err}
	default:
		return &types.HTTPServerError{StatusCode: http.StatusInternalServerError, Message: "internal error", Err: err}
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	serverErr := toServerError(err)
	s.notifyHTTPServerError(r.Method+" "+r.URL.Path, serverErr)
	msg := serverErr.Message
	if msg == "" {
		msg = http.StatusText(serverErr.StatusCode)
	}
	writeJSON(w, serverErr.StatusCode, errorBody{Error: msg})
}
