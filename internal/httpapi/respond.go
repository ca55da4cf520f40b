package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/newsrag/ragproxy/internal/backend"
	"github.com/newsrag/ragproxy/internal/chat"
	"github.com/newsrag/ragproxy/internal/history"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg, details string) {
	respondJSON(w, status, errorResponse{Error: msg, Details: details})
}

// respondChatError maps orchestrator failures onto the proxy's HTTP contract.
// The caller always gets a JSON envelope, never a raw transport error.
func (s *Server) respondChatError(w http.ResponseWriter, r *http.Request, err error) {
	var be *backend.Error
	var oe *history.OpError

	switch {
	case errors.Is(err, chat.ErrMissingSession):
		respondError(w, http.StatusBadRequest, "X-Session-Id header is required", "")
	case errors.Is(err, chat.ErrMissingQuery):
		respondError(w, http.StatusBadRequest, "query must not be empty", "")
	case errors.Is(err, backend.ErrTimeout):
		respondError(w, http.StatusGatewayTimeout, "ML service timed out", err.Error())
	case errors.As(err, &be):
		status := be.Status
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		respondError(w, status, "ML service error", be.Detail)
	case errors.Is(err, backend.ErrUnreachable):
		respondError(w, http.StatusBadGateway, "ML service unreachable", err.Error())
	case errors.Is(err, history.ErrUnavailable), errors.As(err, &oe):
		respondError(w, http.StatusServiceUnavailable, "chat history store unavailable", err.Error())
	default:
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("unclassified request failure")
		respondError(w, http.StatusInternalServerError, "internal error", "")
	}
}
