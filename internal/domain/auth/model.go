package auth

import "time"

// Provider names where an identity was authenticated.
type Provider string

const (
	ProviderPassword Provider = "password"
	ProviderGoogle   Provider = "google"
	ProviderGitHub   Provider = "github"
)

// Identity is the one canonical signed-in user shape. The user id doubles as
// the tenant id.
type Identity struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	Provider    Provider `json:"provider"`
}

// User is the stored account row.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	AvatarURL    string
	Provider     Provider
	PasswordHash string
	CreatedAt    time.Time
}

// Session is a live bearer token. Only the token's hash is kept.
type Session struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the session is past its TTL at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Token is returned on successful sign-in.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Identity    Identity  `json:"user"`
}
