package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in a session's chat log. Sources stay opaque:
// the backend decides their shape and the proxy passes them through.
type Turn struct {
	Role    string            `json:"role"`
	Content string            `json:"content"`
	Sources []json.RawMessage `json:"sources,omitempty"`
}

// ErrUnavailable reports that the store cannot be reached at all.
var ErrUnavailable = errors.New("history store unavailable")

// OpError reports a single failed store operation. The store never retries;
// callers decide whether the failure is fatal to their request.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("history store %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Store persists per-session chat logs with a TTL.
type Store interface {
	// Append adds one turn to the end of the session's log. Per-session
	// ordering under concurrent appends is delegated to the backing store.
	Append(ctx context.Context, sessionID string, turn Turn) error
	// ReadAll returns the full log in insertion order; nil if absent.
	// Entries that fail to decode are dropped, not surfaced as errors.
	ReadAll(ctx context.Context, sessionID string) ([]Turn, error)
	// SetExpiry arms or resets the log's time-to-live.
	SetExpiry(ctx context.Context, sessionID string, ttl time.Duration) error
	// Delete removes the log entirely; deleting an absent log is not an error.
	Delete(ctx context.Context, sessionID string) error
	// Available reports whether the store is currently reachable.
	Available(ctx context.Context) bool
	Close() error
}
