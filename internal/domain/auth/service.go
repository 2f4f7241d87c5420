package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matthallesq/modlab/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// Service signs users in and resolves bearer tokens to tenants.
type Service struct {
	users    UserRepository
	keys     APIKeyRepository
	sessions *SessionStore
	logger   *slog.Logger
}

// NewService creates the auth service. keys may be nil when API keys are unused.
func NewService(users UserRepository, keys APIKeyRepository, sessions *SessionStore, logger *slog.Logger) *Service {
	return &Service{users: users, keys: keys, sessions: sessions, logger: logger}
}

// SignUpRequest defines password sign-up inputs.
type SignUpRequest struct {
	Email       string
	Password    string
	DisplayName string
}

// SignUp registers a password account.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*Identity, error) {
	email := normalizeEmail(req.Email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	u := &User{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Email:        email,
		DisplayName:  firstNonEmpty(strings.TrimSpace(req.DisplayName), email),
		Provider:     ProviderPassword,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("user signed up", "user_id", u.ID)
	}
	id := FromUser(*u)
	return &id, nil
}

// SignIn checks a password and opens a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Token, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.openSession(FromUser(*u))
}

// SignInWithIdentity opens a session for an identity already verified by an
// external provider, creating the account on first sight.
func (s *Service) SignInWithIdentity(ctx context.Context, id Identity) (*Token, error) {
	if id.Email == "" {
		return nil, fmt.Errorf("%w: identity has no email", ErrInvalidInput)
	}
	u, err := s.users.GetByEmail(ctx, normalizeEmail(id.Email))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		u = &User{
			ID:          uuid.Must(uuid.NewV7()).String(),
			Email:       normalizeEmail(id.Email),
			DisplayName: id.DisplayName,
			AvatarURL:   id.AvatarURL,
			Provider:    id.Provider,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("creating user: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return s.openSession(FromUser(*u))
}

// SignOut ends the session for token. Unknown tokens are ignored.
func (s *Service) SignOut(token string) {
	s.sessions.Delete(HashToken(token))
}

// ResolveTenant maps a bearer token to a tenant, trying sessions first and
// API keys second.
func (s *Service) ResolveTenant(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrUnauthorized
	}
	hash := HashToken(token)
	if sess, ok := s.sessions.Lookup(hash); ok {
		return sess.UserID, nil
	}
	if s.keys == nil {
		return "", ErrUnauthorized
	}
	tenantID, err := s.keys.TenantForKey(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("resolving api key: %w", err)
	}
	return tenantID, nil
}

// Whoami returns the identity behind a tenant id.
func (s *Service) Whoami(ctx context.Context, tenantID string) (*Identity, error) {
	u, err := s.users.Get(ctx, tenantID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	id := FromUser(*u)
	return &id, nil
}

func (s *Service) openSession(id Identity) (*Token, error) {
	raw, err := newToken()
	if err != nil {
		return nil, err
	}
	sess := s.sessions.Put(HashToken(raw), id.ID)
	return &Token{
		AccessToken: raw,
		TokenType:   "bearer",
		ExpiresAt:   sess.ExpiresAt,
		Identity:    id,
	}, nil
}

// HashToken returns the hex SHA-256 of a bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
