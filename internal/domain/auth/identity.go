package auth

import (
	"fmt"
	"strings"
)

// FromUser adapts a stored account.
func FromUser(u User) Identity {
	return Identity{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Provider:    u.Provider,
	}
}

// FromGoogleClaims adapts an OpenID Connect claim set issued by Google.
func FromGoogleClaims(claims map[string]any) (Identity, error) {
	email := claimString(claims, "email")
	if email == "" {
		return Identity{}, fmt.Errorf("%w: google claims carry no email", ErrInvalidInput)
	}
	if verified, ok := claims["email_verified"].(bool); ok && !verified {
		return Identity{}, fmt.Errorf("%w: google email not verified", ErrInvalidInput)
	}
	return Identity{
		Email:       normalizeEmail(email),
		DisplayName: firstNonEmpty(claimString(claims, "name"), email),
		AvatarURL:   claimString(claims, "picture"),
		Provider:    ProviderGoogle,
	}, nil
}

// FromGitHubProfile adapts a GitHub user profile payload.
func FromGitHubProfile(profile map[string]any) (Identity, error) {
	email := claimString(profile, "email")
	if email == "" {
		return Identity{}, fmt.Errorf("%w: github profile has no public email", ErrInvalidInput)
	}
	return Identity{
		Email:       normalizeEmail(email),
		DisplayName: firstNonEmpty(claimString(profile, "name"), claimString(profile, "login"), email),
		AvatarURL:   claimString(profile, "avatar_url"),
		Provider:    ProviderGitHub,
	}, nil
}

func claimString(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return strings.TrimSpace(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
