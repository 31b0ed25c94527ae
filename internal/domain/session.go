package domain

import (
	"context"
	"time"
)

// Session is a server-side login session for a host. The token handed to the
// client references a session row by ID; deleting the row invalidates the
// token regardless of its expiry.
type Session struct {
	ID        string    `json:"id"`
	HostID    string    `json:"host_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionRepository defines the interface for session storage
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// TokenIssuer signs a token binding a session ID to a host ID.
type TokenIssuer interface {
	Issue(sessionID, hostID string, expiresAt time.Time) (string, error)
}

// TokenVerifier checks a token's signature and returns the session and host IDs.
type TokenVerifier interface {
	Verify(token string) (sessionID, hostID string, err error)
}

// SessionVerifier resolves a token to the acting host, consulting the
// server-side session store. Implemented by the auth service, used by the
// auth middleware.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (hostID string, err error)
}
