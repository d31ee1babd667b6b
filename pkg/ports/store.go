package ports

import (
	"context"

	"github.com/rejoice-framework/menuflow/pkg/domain"
)

// SessionStore persists session documents keyed by the subscriber msisdn.
//
// Store failures are fatal for the request that hits them: a session that
// cannot be durably saved must not silently proceed, because the next
// request from the same subscriber depends on it.
type SessionStore interface {
	// Load retrieves the session for a subscriber.
	// Returns domain.ErrSessionNotFound when none exists.
	Load(ctx context.Context, msisdn string) (*domain.SessionState, error)

	// Save persists the session for a subscriber.
	Save(ctx context.Context, msisdn string, state *domain.SessionState) error

	// Delete hard-resets the subscriber's session. Deleting a session that
	// does not exist is not an error.
	Delete(ctx context.Context, msisdn string) error

	// Exists reports whether a session is stored for the subscriber.
	Exists(ctx context.Context, msisdn string) (bool, error)
}
