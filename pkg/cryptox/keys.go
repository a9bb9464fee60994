package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// SigningKeySize is the HMAC-SHA256 key length in bytes.
const SigningKeySize = 32

// MinSecretLen is the minimum accepted length for the configured shared
// secret. Shorter secrets undermine the whole token scheme.
const MinSecretLen = 16

// DeriveSigningKey expands the configured shared secret into a fixed-size
// HMAC signing key using HKDF-SHA256. The info string domain-separates keys
// derived from the same secret (e.g. "token-signing").
func DeriveSigningKey(secret []byte, info string) ([]byte, error) {
	if len(secret) < MinSecretLen {
		return nil, errors.New("cryptox: shared secret too short")
	}

	key := make([]byte, SigningKeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("cryptox: derive signing key: %w", err)
	}
	return key, nil
}

// KeyFingerprint returns base64url(SHA-256(secret)). This is what the JWKS
// endpoint publishes as the "k" value: a deterministic derivation of the
// secret, never the secret itself.
func KeyFingerprint(secret []byte) string {
	sum := sha256.Sum256(secret)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
