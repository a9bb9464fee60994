package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveSigningKey(t *testing.T) {
	t.Parallel()

	secret := []byte("a-shared-secret-of-decent-length")

	t.Run("derivation is deterministic", func(t *testing.T) {
		a, err := DeriveSigningKey(secret, "token-signing")
		require.NoError(t, err)
		b, err := DeriveSigningKey(secret, "token-signing")
		require.NoError(t, err)
		require.Equal(t, a, b)
		require.Len(t, a, SigningKeySize)
	})

	t.Run("info string separates key domains", func(t *testing.T) {
		a, err := DeriveSigningKey(secret, "token-signing")
		require.NoError(t, err)
		b, err := DeriveSigningKey(secret, "something-else")
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("derived key differs from the secret", func(t *testing.T) {
		key, err := DeriveSigningKey(secret, "token-signing")
		require.NoError(t, err)
		require.NotEqual(t, secret, key)
	})

	t.Run("rejects short secrets", func(t *testing.T) {
		_, err := DeriveSigningKey([]byte("too-short"), "token-signing")
		require.Error(t, err)
	})
}

func TestKeyFingerprint(t *testing.T) {
	t.Parallel()

	secret := []byte("a-shared-secret-of-decent-length")

	sum := sha256.Sum256(secret)
	want := base64.RawURLEncoding.EncodeToString(sum[:])
	require.Equal(t, want, KeyFingerprint(secret))

	// The fingerprint never leaks the secret itself.
	require.NotContains(t, KeyFingerprint(secret), string(secret))
	require.NotEqual(t, KeyFingerprint(secret), KeyFingerprint([]byte("another-secret-entirely-here")))
}
