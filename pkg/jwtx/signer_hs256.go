package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/libelulasoft/agil-idp/pkg/cryptox"
)

// HS256Signer implements the Signer interface using HMAC-SHA256 with a
// single process-wide key derived from the configured shared secret.
type HS256Signer struct {
	kid  string
	key  []byte
	jwkK string
	alg  string
}

// newHS256Signer derives the HMAC key from the shared secret. The key is
// fixed for the lifetime of the process.
func newHS256Signer(kid string, secret []byte) (*HS256Signer, error) {
	key, err := cryptox.DeriveSigningKey(secret, "token-signing")
	if err != nil {
		return nil, err
	}

	return &HS256Signer{
		kid:  kid,
		key:  key,
		jwkK: cryptox.KeyFingerprint(secret),
		alg:  jwt.SigningMethodHS256.Alg(),
	}, nil
}

func (s *HS256Signer) Alg() string { return s.alg }
func (s *HS256Signer) KID() string { return s.kid }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}

// PublicJWK returns the JWK for inclusion in the JWKS. With a symmetric
// key the published "k" is a SHA-256 fingerprint of the secret, so the
// endpoint advertises key identity without disclosing signing material.
func (s *HS256Signer) PublicJWK() JWK {
	return NewOctJWK(s.kid, "sig", s.alg, s.jwkK)
}

// VerificationKey returns the HMAC key for in-process verification.
func (s *HS256Signer) VerificationKey() any {
	return s.key
}

// Validate does a quick sanity check to make sure we actually have a key.
func (s *HS256Signer) Validate() error {
	if len(s.key) != cryptox.SigningKeySize {
		return errors.New("jwtx: invalid HS256 key size")
	}
	return nil
}
