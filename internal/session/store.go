package session

import (
	"context"
	"time"
)

// Session ties a browser to an authenticated identity. The ID token is
// the only payload; a missing session means the visitor is anonymous.
type Session struct {
	SessionID string    // unique session identifier, carried in the cookie
	IDToken   string    // identity token issued by the OAuth provider
	CreatedAt time.Time // when the session was established
	ExpiresAt time.Time // absolute expiry time
}

// Store defines how sessions are stored and retrieved.
// Implementations must treat the ID token as an opaque bearer value.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}
