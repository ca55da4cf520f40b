package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/newsrag/ragproxy/internal/backend"
	"github.com/newsrag/ragproxy/internal/history"
	"github.com/newsrag/ragproxy/internal/observability"
)

var (
	ErrMissingSession = errors.New("session id is required")
	ErrMissingQuery   = errors.New("query is required")
)

// Generator produces an assistant answer for a query.
type Generator interface {
	Generate(ctx context.Context, query, sessionID string) (backend.Result, error)
}

// Result is the answer returned to the caller for one exchange.
type Result struct {
	Content string
	Sources []json.RawMessage
}

// Orchestrator runs one chat exchange end to end: persist the user turn,
// call the backend, persist the assistant turn, arm the log's TTL.
type Orchestrator struct {
	store   history.Store
	gen     Generator
	ttl     time.Duration
	metrics *observability.Metrics
	log     zerolog.Logger
}

func NewOrchestrator(store history.Store, gen Generator, ttl time.Duration, metrics *observability.Metrics, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		store:   store,
		gen:     gen,
		ttl:     ttl,
		metrics: metrics,
		log:     log,
	}
}

// HandleChat validates the input, forwards the query to the backend, and
// appends both turns to the session log. History writes are best-effort:
// their failures are logged and swallowed so that store trouble never
// costs the caller an answer. A backend failure, in contrast, ends the
// exchange and propagates to the caller.
func (o *Orchestrator) HandleChat(ctx context.Context, sessionID, query string) (Result, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Result{}, ErrMissingSession
	}
	if strings.TrimSpace(query) == "" {
		return Result{}, ErrMissingQuery
	}

	o.persistTurn(ctx, sessionID, history.Turn{Role: history.RoleUser, Content: query}, false)

	start := time.Now()
	res, err := o.gen.Generate(ctx, query, sessionID)
	if err != nil {
		o.metrics.BackendFailures.WithLabelValues(failureClass(err)).Inc()
		return Result{}, err
	}
	o.metrics.ObserveBackendLatency(time.Since(start))

	o.persistTurn(ctx, sessionID, history.Turn{
		Role:    history.RoleAssistant,
		Content: res.Content,
		Sources: res.Sources,
	}, true)

	return Result{Content: res.Content, Sources: res.Sources}, nil
}

// GetHistory returns the session's full log. Unlike the orchestrator's own
// writes, an explicit read has no fallback value, so store trouble surfaces.
func (o *Orchestrator) GetHistory(ctx context.Context, sessionID string) ([]history.Turn, error) {
	if !o.store.Available(ctx) {
		return nil, history.ErrUnavailable
	}
	return o.store.ReadAll(ctx, sessionID)
}

// ClearHistory removes the session's log. Idempotent.
func (o *Orchestrator) ClearHistory(ctx context.Context, sessionID string) error {
	if !o.store.Available(ctx) {
		return history.ErrUnavailable
	}
	return o.store.Delete(ctx, sessionID)
}

// persistTurn is the single deliberate swallow point for store failures.
// Everything that goes wrong here is logged and counted, never returned.
// armTTL is set on assistant turns only: the TTL is armed once per
// completed exchange, not on the user-turn append.
func (o *Orchestrator) persistTurn(ctx context.Context, sessionID string, turn history.Turn, armTTL bool) {
	if !o.store.Available(ctx) {
		o.metrics.SwallowedWrites.Inc()
		o.log.Warn().
			Str("session_id", sessionID).
			Str("role", turn.Role).
			Msg("history store unavailable, skipping turn persistence")
		return
	}

	if err := o.store.Append(ctx, sessionID, turn); err != nil {
		o.metrics.StoreFailures.WithLabelValues("append").Inc()
		o.metrics.SwallowedWrites.Inc()
		o.log.Warn().
			Err(err).
			Str("session_id", sessionID).
			Str("role", turn.Role).
			Msg("failed to append turn to history")
		return
	}

	if !armTTL {
		return
	}
	if err := o.store.SetExpiry(ctx, sessionID, o.ttl); err != nil {
		o.metrics.StoreFailures.WithLabelValues("expire").Inc()
		o.log.Warn().
			Err(err).
			Str("session_id", sessionID).
			Msg("failed to arm history TTL")
	}
}

func failureClass(err error) string {
	var be *backend.Error
	switch {
	case errors.Is(err, backend.ErrTimeout):
		return "timeout"
	case errors.Is(err, backend.ErrUnreachable):
		return "unreachable"
	case errors.As(err, &be):
		return "backend_error"
	default:
		return "other"
	}
}
