package domain

import (
	"context"
	"time"
)

// Host represents a registered event organizer.
// swagger:model Host
type Host struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	WhatsAppNumber string    `json:"whatsapp_number"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewHost returns a new Host. ID is set by the repository on create.
func NewHost(email, name, whatsappNumber, passwordHash string, createdAt time.Time) *Host {
	return &Host{
		Email:          email,
		Name:           name,
		WhatsAppNumber: whatsappNumber,
		PasswordHash:   passwordHash,
		CreatedAt:      createdAt,
	}
}

// PasswordHasher handles hashing and verification of host passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// HostRepository defines the interface for host storage
type HostRepository interface {
	Create(ctx context.Context, host *Host) error
	GetByEmail(ctx context.Context, email string) (*Host, error)
	GetByID(ctx context.Context, id string) (*Host, error)
	// Delete removes the host and, in the same transaction, every event it
	// owns and every attendee of those events.
	Delete(ctx context.Context, id string) error
}

// AuthService defines signup, login, and session-backed identity.
type AuthService interface {
	// SignUp registers a new host and opens a session for it.
	SignUp(ctx context.Context, email, password, name, whatsappNumber string) (*Host, string, error)
	// Login verifies credentials and opens a session. Returns the host and a
	// session token.
	Login(ctx context.Context, email, password string) (*Host, string, error)
	// Logout invalidates the session for the given token. Idempotent.
	Logout(ctx context.Context, token string) error
	// CurrentHost resolves the host behind a session token.
	CurrentHost(ctx context.Context, hostID string) (*Host, error)
}
