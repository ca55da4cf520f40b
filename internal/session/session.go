// Package session generates opaque session identifiers. A session carries
// no server-side state of its own; the identifier is a correlation key for
// the chat log kept in the history store.
package session

import "github.com/google/uuid"

// NewID returns a new globally-unique opaque session identifier.
func NewID() string {
	return uuid.NewString()
}
