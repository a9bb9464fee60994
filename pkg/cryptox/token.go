package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Code size constants (in bytes before encoding).
const (
	// CodeSize128 provides 128 bits of entropy (22 chars base64url).
	CodeSize128 = 16
	// CodeSize256 provides 256 bits of entropy (43 chars base64url).
	CodeSize256 = 32
)

// GenerateCode creates a cryptographically secure random code of the
// specified byte length, returned base64url-encoded (URL-safe, no padding).
//
// Authorization codes use CodeSize256; anything below CodeSize128 does not
// meet the entropy floor for an unguessable grant.
func GenerateCode(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("code size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Fingerprint returns a deterministic SHA-256 fingerprint of a secret value
// as a base64url-encoded string (43 chars). Codes and access tokens are
// stored under their fingerprint so the stores never hold live grant values.
func Fingerprint(value string) string {
	sum := sha256.Sum256([]byte(value))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
