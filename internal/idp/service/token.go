package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/libelulasoft/agil-idp/internal/idp/domain"
	"github.com/libelulasoft/agil-idp/internal/idp/store"
	"github.com/libelulasoft/agil-idp/internal/idp/upstream"
	"github.com/libelulasoft/agil-idp/pkg/jwtx"
	"github.com/libelulasoft/agil-idp/pkg/slogx"
)

// TokenService implements the token endpoint grants: redeeming
// authorization codes and the resource owner password grant. Every
// successful grant signs an access token and an ID token and records the
// access token for later userinfo lookups.
type TokenService struct {
	Signer    jwtx.Signer
	Codes     *store.CodeStore
	Tokens    *store.TokenStore
	Authority CredentialAuthority
	Directory ProfileDirectory

	Issuer       string
	ClientID     string
	ClientSecret string
	AccessTTL    time.Duration
}

// VerifyClient authenticates the single registered client. The secret
// comparison is constant-time so response timing never narrows a guess.
func (s *TokenService) VerifyClient(clientID, clientSecret string) error {
	if clientID != s.ClientID {
		return ErrInvalidClient
	}
	if subtle.ConstantTimeCompare([]byte(clientSecret), []byte(s.ClientSecret)) != 1 {
		return ErrInvalidClient
	}
	return nil
}

// ExchangeAuthorizationCode implements the OAuth2 authorization_code grant.
//
// The code is consumed before its bindings are checked: a redemption with a
// mismatched client_id or redirect_uri fails AND destroys the code, so the
// legitimate holder cannot use it afterwards either.
func (s *TokenService) ExchangeAuthorizationCode(
	ctx context.Context,
	clientID, clientSecret, code, redirectURI string,
) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	if err := s.VerifyClient(clientID, clientSecret); err != nil {
		l.Info("authorization_code grant client authentication failed", "client_id", clientID)
		return nil, err
	}

	code = strings.TrimSpace(code)
	redirectURI = strings.TrimSpace(redirectURI)
	if code == "" || redirectURI == "" {
		return nil, ErrInvalidGrant
	}

	// Destructive redeem. Whatever happens below, this code is spent.
	rec, err := s.Codes.Redeem(code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidGrant
		}
		return nil, err
	}

	if rec.ClientID != clientID || rec.RedirectURI != redirectURI {
		l.Warn("authorization code binding mismatch, code consumed",
			"sub", rec.SubjectID, "client_id", clientID)
		return nil, ErrInvalidGrant
	}

	profile := s.resolveProfile(ctx, rec.SubjectID, rec.SubjectEmail)

	return s.IssueTokenPair(ctx, profile, clientID, rec.Scope, rec.Nonce)
}

// ExchangePassword implements the resource owner password grant. The
// username is the subject's directory email.
func (s *TokenService) ExchangePassword(
	ctx context.Context,
	clientID, clientSecret, username, password, scope string,
) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	if err := s.VerifyClient(clientID, clientSecret); err != nil {
		l.Info("password grant client authentication failed", "client_id", clientID)
		return nil, err
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidGrant
	}

	if err := s.Authority.Validate(ctx, username, password); err != nil {
		switch {
		case errors.Is(err, upstream.ErrDenied):
			return nil, ErrInvalidGrant
		default:
			l.Error("password grant: authority unreachable", "error", err)
			return nil, ErrUpstreamUnavailable
		}
	}

	profile := fallbackProfile(username)
	if s.Directory != nil {
		var err error
		profile, err = s.Directory.FindByEmail(ctx, username)
		if err != nil {
			switch {
			case errors.Is(err, upstream.ErrNotFound):
				return nil, ErrInvalidGrant
			default:
				l.Error("password grant: directory unreachable", "error", err)
				return nil, ErrUpstreamUnavailable
			}
		}
	}

	granted := normalizeScope(scope)
	if granted == "" {
		granted = DefaultScope
	}

	return s.IssueTokenPair(ctx, profile, clientID, granted, "")
}

// IssueTokenPair signs the access and ID tokens for the subject and records
// the access token. iat/exp come from the clock at call time, never from
// anything the caller supplied.
func (s *TokenService) IssueTokenPair(
	ctx context.Context,
	profile domain.Profile,
	clientID, scope, nonce string,
) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	access := jwtx.NewAccessClaims(profile.ID, scope, clientID, ttl, s.Issuer, []string{clientID}, now)
	accessToken, err := s.Signer.Sign(access)
	if err != nil {
		return nil, err
	}

	id := jwtx.NewIDClaims(profile.ID, clientID, nonce, ttl, s.Issuer, now)
	applyProfileClaims(&id, profile)
	idToken, err := s.Signer.Sign(id)
	if err != nil {
		return nil, err
	}

	s.Tokens.Record(accessToken, domain.AccessToken{
		SubjectID:    profile.ID,
		SubjectEmail: profile.Email,
		ClientID:     clientID,
		Scope:        scope,
	})

	l.Info("token pair issued", "sub", profile.ID, "client_id", clientID, "scope", scope)

	return &domain.TokenPair{
		AccessToken: accessToken,
		IDToken:     idToken,
		TokenType:   "Bearer",
		ExpiresIn:   ttl,
		Scope:       scope,
	}, nil
}

// resolveProfile re-reads the directory at redemption time so ID token
// claims reflect the current profile. A miss or outage degrades to
// sub-only claims instead of failing the grant; the subject was already
// authenticated when the code was minted.
func (s *TokenService) resolveProfile(ctx context.Context, subjectID, email string) domain.Profile {
	l := slogx.FromContext(ctx)

	if email != "" && s.Directory != nil {
		profile, err := s.Directory.FindByEmail(ctx, email)
		if err == nil {
			return profile
		}
		l.Warn("profile resolution degraded to sub-only claims", "sub", subjectID, "error", err)
	}

	return domain.Profile{ID: subjectID, Email: email}
}

// applyProfileClaims copies the available profile claims onto ID token
// claims. Empty fields stay absent from the payload.
func applyProfileClaims(c *jwtx.Claims, p domain.Profile) {
	c.Name = p.DisplayName()
	c.GivenName = p.GivenName
	c.FamilyName = p.FamilyName
	c.Email = p.Email
	c.EmailVerified = p.EmailVerified
	c.PreferredUsername = p.Username
}
