package jwtx

// JWK represents a key in JSON Web Key format (RFC 7517). The service signs
// with a symmetric key, so the only key type we publish is "oct". The "k"
// field carries a fingerprint of the configured secret rather than the real
// key material.
type JWK struct {
	Kty string `json:"kty"`           // key type: "oct"
	Use string `json:"use,omitempty"` // what we use it for: "sig"
	Alg string `json:"alg,omitempty"` // algorithm: "HS256"
	Kid string `json:"kid,omitempty"` // key ID

	// Symmetric key field (base64url). For this service it is always a
	// SHA-256 derivation of the secret, never the secret itself.
	K string `json:"k,omitempty"`
}

// JWKS is a JSON Web Key Set (RFC 7517).
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// NewOctJWK builds a JWK for a symmetric key. k must already be the
// base64url-encoded published value.
func NewOctJWK(kid, use, alg, k string) JWK {
	return JWK{
		Kty: "oct",
		Use: use,
		Alg: alg,
		Kid: kid,
		K:   k,
	}
}
