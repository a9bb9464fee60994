package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewAccessClaims(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := NewAccessClaims("user-1", "openid email", "client-1", 30*time.Minute, "https://idp.test", []string{"client-1"}, now)

	require.Equal(t, "user-1", c.Subject)
	require.Equal(t, "https://idp.test", c.Issuer)
	require.Equal(t, []string{"client-1"}, []string(c.Audience))
	require.Equal(t, now, c.IssuedAt.Time)
	require.Equal(t, now.Add(30*time.Minute), c.ExpiresAt.Time)
	require.Equal(t, "openid email", c.Scope)
	require.Equal(t, "client-1", c.ClientID)
	require.NotEmpty(t, c.ID)
	require.ElementsMatch(t, []string{"openid", "email"}, c.ScopeList())
}

func TestNewIDClaims(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := NewIDClaims("user-1", "client-1", "nonce-xyz", time.Hour, "https://idp.test", now)

	require.Equal(t, "user-1", c.Subject)
	require.Equal(t, []string{"client-1"}, []string(c.Audience), "ID token audience is the client")
	require.Equal(t, "nonce-xyz", c.Nonce)
	require.Equal(t, now.Unix(), c.AuthTime)
	require.Equal(t, now.Add(time.Hour), c.ExpiresAt.Time)
}

func TestClaimsValidate(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	c := NewAccessClaims("user-1", "openid", "client-1", time.Hour, "https://idp.test", []string{"client-1"}, now)

	require.NoError(t, c.ValidateIssuer("https://idp.test"))
	require.NoError(t, c.ValidateIssuer("")) // nothing to enforce
	require.ErrorIs(t, c.ValidateIssuer("https://other.test"), ErrIssuer)

	require.NoError(t, c.ValidateAudience([]string{"client-1", "extra"}))
	require.ErrorIs(t, c.ValidateAudience([]string{"extra"}), ErrAudience)

	require.NoError(t, c.ValidateExpiry())

	expired := NewAccessClaims("user-1", "openid", "client-1", time.Hour, "https://idp.test", []string{"client-1"},
		now.Add(-2*time.Hour))
	require.ErrorIs(t, expired.ValidateExpiry(), ErrExpired)
}
