package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/newsrag/ragproxy/internal/chat"
	"github.com/newsrag/ragproxy/internal/config"
	"github.com/newsrag/ragproxy/internal/history"
	"github.com/newsrag/ragproxy/internal/observability"
	"github.com/newsrag/ragproxy/internal/session"
)

// ChatService is the orchestrator surface the HTTP layer depends on.
type ChatService interface {
	HandleChat(ctx context.Context, sessionID, query string) (chat.Result, error)
	GetHistory(ctx context.Context, sessionID string) ([]history.Turn, error)
	ClearHistory(ctx context.Context, sessionID string) error
}

type Server struct {
	cfg     config.Config
	chats   ChatService
	store   history.Store
	metrics *observability.Metrics
	log     zerolog.Logger
}

func New(cfg config.Config, chats ChatService, store history.Store, metrics *observability.Metrics, log zerolog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		chats:   chats,
		store:   store,
		metrics: metrics,
		log:     log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Session-Id"},
		AllowCredentials: true,
	}))
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/session/new", s.handleNewSession)
	r.Post("/chat", s.handleChat)
	r.Get("/chat/history/{sessionID}", s.handleGetHistory)
	r.Post("/chat/session/{sessionID}/clear", s.handleClearHistory)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	redisStatus := "disconnected_or_error"
	if s.store.Available(r.Context()) {
		redisStatus = "connected"
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"redis_status": redisStatus,
	})
}

func (s *Server) handleNewSession(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": session.NewID(),
		"message":    "New session created.",
	})
}

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Response string            `json:"response"`
	Sources  []json.RawMessage `json:"sources"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.Header.Get("X-Session-Id"))
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "X-Session-Id header is required", "")
		return
	}

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	res, err := s.chats.HandleChat(r.Context(), sessionID, req.Query)
	if err != nil {
		s.respondChatError(w, r, err)
		return
	}

	sources := res.Sources
	if sources == nil {
		sources = []json.RawMessage{}
	}
	respondJSON(w, http.StatusOK, chatResponse{Response: res.Content, Sources: sources})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	turns, err := s.chats.GetHistory(r.Context(), sessionID)
	if err != nil {
		s.respondChatError(w, r, err)
		return
	}
	if turns == nil {
		turns = []history.Turn{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"history":    turns,
	})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := s.chats.ClearHistory(r.Context(), sessionID); err != nil {
		s.respondChatError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"message":    "Chat history cleared successfully.",
	})
}
