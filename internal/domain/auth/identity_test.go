package auth_test

import (
	"testing"
	"time"

	"github.com/matthallesq/modlab/internal/domain/auth"
	"github.com/stretchr/testify/require"
)

func TestFromGoogleClaims(t *testing.T) {
	id, err := auth.FromGoogleClaims(map[string]any{
		"email":          "Lin@Example.com",
		"email_verified": true,
		"name":           "Lin",
		"picture":        "https://example.com/lin.png",
	})
	require.NoError(t, err)
	require.Equal(t, "lin@example.com", id.Email)
	require.Equal(t, auth.ProviderGoogle, id.Provider)
	require.Equal(t, "https://example.com/lin.png", id.AvatarURL)

	_, err = auth.FromGoogleClaims(map[string]any{"email": "x@y.z", "email_verified": false})
	require.ErrorIs(t, err, auth.ErrInvalidInput)
	_, err = auth.FromGitHubProfile(map[string]any{"login": "nomail"})
	require.ErrorIs(t, err, auth.ErrInvalidInput)
}

func TestSessionStore_Expiry(t *testing.T) {
	store := auth.NewSessionStore(10 * time.Millisecond)
	store.Put("h1", "u1")
	sess, ok := store.Lookup("h1")
	require.True(t, ok)
	require.Equal(t, "u1", sess.UserID)

	time.Sleep(20 * time.Millisecond)
	_, ok = store.Lookup("h1")
	require.False(t, ok)

	store.Put("h2", "u2")
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, 1, store.Sweep())
	require.Equal(t, 0, store.Len())
}
