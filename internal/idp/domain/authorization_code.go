package domain

import "time"

// AuthorizationCode represents an OAuth 2.0 authorization code issuance.
// The record is stored under CodeHash; the plaintext code only ever lives
// in the redirect back to the client.
type AuthorizationCode struct {
	CodeHash     string
	ClientID     string
	RedirectURI  string
	Scope        string
	State        string
	Nonce        string
	SubjectID    string
	SubjectEmail string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// Expired reports whether the code is past its lifetime at the given instant.
func (c AuthorizationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
