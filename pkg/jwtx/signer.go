package jwtx

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	PublicJWK() JWK
	VerificationKey() any
	Validate() error
}

// NewSignerHS256 creates an HS256 signer from a shared secret. The signing
// key is derived from the secret once via HKDF; the published JWK carries a
// fingerprint of the secret, never the key itself.
func NewSignerHS256(kid string, secret []byte) (Signer, error) {
	return newHS256Signer(kid, secret)
}
