package domain

import "time"

// TokenPair is what the token endpoint returns: the access token, the OIDC
// identity token, and the grant metadata.
type TokenPair struct {
	AccessToken string        `json:"access_token"`
	IDToken     string        `json:"id_token,omitempty"`
	TokenType   string        `json:"token_type,omitempty"` // typically "Bearer"
	ExpiresIn   time.Duration `json:"expires_in"`           // seconds until expiry
	Scope       string        `json:"scope,omitempty"`      // space-delimited
}

// AccessToken models the stored access token record. Tokens are volatile;
// losing the process invalidates everything outstanding.
type AccessToken struct {
	TokenHash    string // deterministic fingerprint (base64url SHA-256)
	SubjectID    string
	SubjectEmail string
	ClientID     string
	Scope        string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// Expired reports whether the token is past its lifetime at the given instant.
func (t AccessToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
