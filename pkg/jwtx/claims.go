package jwtx

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/libelulasoft/agil-idp/pkg/idx"
)

// Default token TTL constants for the OAuth2/OIDC flows.
// These provide sensible security defaults but can be overridden per-service.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = time.Hour

	// DefaultIDTokenTTL is the default lifetime for ID tokens, matching
	// the access token lifetime.
	DefaultIDTokenTTL = time.Hour
)

// Claims are the token claims used across the service. Access tokens and
// ID tokens share this shape; unused fields are omitted from the payload.
type Claims struct {
	jwt.RegisteredClaims

	// Scope is the space-delimited scope string granted to the token.
	Scope string `json:"scope,omitempty"`

	// ClientID is the OAuth2 client the token was issued to.
	ClientID string `json:"client_id,omitempty"`

	// Nonce echoes the authorization request nonce into the ID token.
	Nonce string `json:"nonce,omitempty"`

	// AuthTime is when the end user authenticated (unix seconds).
	AuthTime int64 `json:"auth_time,omitempty"`

	/* OIDC profile claims, present when the directory knows the user */

	Name              string `json:"name,omitempty"`
	GivenName         string `json:"given_name,omitempty"`
	FamilyName        string `json:"family_name,omitempty"`
	Email             string `json:"email,omitempty"`
	EmailVerified     bool   `json:"email_verified,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// NewAccessClaims builds minimally-correct access-token claims. iat and exp
// always come from now, never from the caller's request.
func NewAccessClaims(
	subject, scope, clientID string,
	ttl time.Duration,
	issuer string,
	audience []string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Scope:    scope,
		ClientID: clientID,
	}
}

// NewIDClaims builds ID-token claims for the authenticated subject. The
// audience is the client the token was issued to. Profile fields are set
// by the caller afterwards, when the directory knows the user.
func NewIDClaims(
	subject, clientID, nonce string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{clientID},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Nonce:    nonce,
		AuthTime: now.Unix(),
	}
}

// NewJTI returns a sortable unique identifier for the "jti" claim.
func NewJTI() string {
	return idx.New().String()
}

// ScopeList splits the scope claim into its individual scopes.
func (c *Claims) ScopeList() []string {
	return strings.Fields(c.Scope)
}

// HasScope reports whether the token carries the given scope.
func (c *Claims) HasScope(scope string) bool {
	for _, s := range c.ScopeList() {
		if s == scope {
			return true
		}
	}
	return false
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil // nothing to enforce
	}

	for _, want := range expected {
		for _, have := range c.Audience {
			if have == want {
				return nil
			}
		}
	}

	return ErrAudience
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	// Check expired (exp)
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	// Check if a valid token isn't used before it is valid (nbf)
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
