package ports

import (
	"context"

	"github.com/aretw0/concierge/pkg/domain"
)

// StateStore defines the interface for persisting conversation state.
// Implementations must not retain references to the saved state nor hand out
// references to their internal copy.
type StateStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the live sessions.
	List(ctx context.Context) ([]string, error)
}
