package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDIsUniqueAndParseable(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID()
		_, err := uuid.Parse(id)
		require.NoError(t, err)

		_, dup := seen[id]
		assert.False(t, dup, "duplicate session id %s", id)
		seen[id] = struct{}{}
	}
}
