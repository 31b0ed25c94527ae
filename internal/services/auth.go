package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"venha/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	hostRepo    domain.HostRepository
	sessionRepo domain.SessionRepository
	hasher      domain.PasswordHasher
	issuer      domain.TokenIssuer
	verifier    domain.TokenVerifier
	sessionTTL  time.Duration
}

// AuthService combines signup/login with session verification for the
// middleware.
type AuthService interface {
	domain.AuthService
	domain.SessionVerifier
}

// NewAuthService creates an AuthService with the given repositories and
// crypto ports.
func NewAuthService(
	hostRepo domain.HostRepository,
	sessionRepo domain.SessionRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	verifier domain.TokenVerifier,
	sessionTTL time.Duration,
) AuthService {
	return &authService{
		hostRepo:    hostRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		issuer:      issuer,
		verifier:    verifier,
		sessionTTL:  sessionTTL,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (s *authService) SignUp(ctx context.Context, email, password, name, whatsappNumber string) (*domain.Host, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" || strings.TrimSpace(name) == "" || strings.TrimSpace(whatsappNumber) == "" {
		return nil, "", fmt.Errorf("%w: missing required fields", domain.ErrValidation)
	}
	if !emailRegexp.MatchString(email) {
		return nil, "", fmt.Errorf("%w: invalid email format", domain.ErrValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	host := domain.NewHost(email, strings.TrimSpace(name), strings.TrimSpace(whatsappNumber), hash, time.Now())
	if err := s.hostRepo.Create(ctx, host); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, "", domain.ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("create host: %w", err)
	}

	token, err := s.openSession(ctx, host.ID)
	if err != nil {
		return nil, "", err
	}
	return host, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.Host, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password required", domain.ErrValidation)
	}

	host, err := s.hostRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrHostNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get host: %w", err)
	}
	if err := s.hasher.Compare(host.PasswordHash, password); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, host.ID)
	if err != nil {
		return nil, "", err
	}
	return host, token, nil
}

// Logout deletes the server-side session, if any. An unverifiable token means
// the session is already unusable, so logout succeeds regardless.
func (s *authService) Logout(ctx context.Context, token string) error {
	sessionID, _, err := s.verifier.Verify(token)
	if err != nil {
		return nil
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *authService) CurrentHost(ctx context.Context, hostID string) (*domain.Host, error) {
	host, err := s.hostRepo.GetByID(ctx, hostID)
	if err != nil {
		if errors.Is(err, domain.ErrHostNotFound) {
			// Stale session: the token verified but the host row is gone.
			return nil, domain.ErrHostNotFound
		}
		return nil, fmt.Errorf("get host: %w", err)
	}
	return host, nil
}

// VerifySession implements domain.SessionVerifier. A token is only good while
// its server-side session row exists and has not expired.
func (s *authService) VerifySession(ctx context.Context, token string) (string, error) {
	sessionID, hostID, err := s.verifier.Verify(token)
	if err != nil {
		return "", domain.ErrSessionNotFound
	}
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return "", domain.ErrSessionNotFound
		}
		return "", fmt.Errorf("get session: %w", err)
	}
	if sess.HostID != hostID || time.Now().After(sess.ExpiresAt) {
		return "", domain.ErrSessionNotFound
	}
	return sess.HostID, nil
}

func (s *authService) openSession(ctx context.Context, hostID string) (string, error) {
	now := time.Now()
	sess := &domain.Session{
		HostID:    hostID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	token, err := s.issuer.Issue(sess.ID, hostID, sess.ExpiresAt)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
