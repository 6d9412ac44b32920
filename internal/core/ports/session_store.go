package ports

import (
	"context"

	"github.com/netondemand/portal/internal/core/domain"
)

// SessionStore persists the three session keys (access token, refresh token,
// serialized user) for a session id.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, s *domain.Session) error
	// Load returns domain.ErrSessionNotFound when no access token is stored.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)
	// Clear removes all three keys. Clearing an unknown session is not an error.
	Clear(ctx context.Context, sessionID string) error
}
