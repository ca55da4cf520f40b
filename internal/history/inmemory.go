package history

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore is a simple in-process store for local/dev use when no
// redis is configured. TTLs are enforced lazily on access.
type InMemoryStore struct {
	mu   sync.RWMutex
	logs map[string]*memoryLog
}

type memoryLog struct {
	turns    []Turn
	deadline time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{logs: make(map[string]*memoryLog)}
}

func (s *InMemoryStore) Append(_ context.Context, sessionID string, turn Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.liveLog(sessionID)
	if l == nil {
		l = &memoryLog{}
		s.logs[sessionID] = l
	}
	l.turns = append(l.turns, turn)
	return nil
}

func (s *InMemoryStore) ReadAll(_ context.Context, sessionID string) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.liveLog(sessionID)
	if l == nil {
		return nil, nil
	}
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out, nil
}

func (s *InMemoryStore) SetExpiry(_ context.Context, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l := s.liveLog(sessionID); l != nil {
		l.deadline = time.Now().Add(ttl)
	}
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, sessionID)
	return nil
}

func (s *InMemoryStore) Available(context.Context) bool { return true }

func (s *InMemoryStore) Close() error { return nil }

// liveLog returns the session's log, evicting it first if its TTL has
// passed. Callers must hold the write lock.
func (s *InMemoryStore) liveLog(sessionID string) *memoryLog {
	l, ok := s.logs[sessionID]
	if !ok {
		return nil
	}
	if !l.deadline.IsZero() && time.Now().After(l.deadline) {
		delete(s.logs, sessionID)
		return nil
	}
	return l
}
