package auth

import "context"

// UserRepository provides persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
}

// APIKeyRepository resolves long-lived API keys by hash.
type APIKeyRepository interface {
	// TenantForKey returns the tenant owning keyHash and touches its last-used time.
	TenantForKey(ctx context.Context, keyHash string) (string, error)
}
