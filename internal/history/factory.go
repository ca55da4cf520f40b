package history

import "strings"

// NewStore creates a redis-backed store when configured, otherwise in-memory.
// A redis that is down at startup is not an error; the service runs degraded
// and the store reports unavailable until redis comes back.
func NewStore(redisURL string) (Store, error) {
	if strings.TrimSpace(redisURL) == "" {
		return NewInMemoryStore(), nil
	}
	return NewRedisStore(redisURL)
}
