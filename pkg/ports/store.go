package ports

import (
	"context"

	"github.com/aretw0/journey/pkg/exploration"
)

// ExplorationStore persists explorations by session ID.
type ExplorationStore interface {
	// Save persists the exploration for a given session ID, replacing any
	// previous one.
	Save(ctx context.Context, sessionID string, x *exploration.Exploration) error

	// Load retrieves the exploration for a given session ID. The result
	// shares no state with what the store holds.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*exploration.Exploration, error)

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of stored sessions.
	List(ctx context.Context) ([]string, error)
}
