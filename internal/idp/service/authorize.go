package service

import (
	"context"
	"errors"
	"strings"

	"github.com/libelulasoft/agil-idp/internal/idp/domain"
	"github.com/libelulasoft/agil-idp/internal/idp/store"
	"github.com/libelulasoft/agil-idp/internal/idp/upstream"
	"github.com/libelulasoft/agil-idp/pkg/slogx"
)

// DefaultScope is granted when an authorization request omits scope.
const DefaultScope = "openid"

// AuthorizeService encapsulates the OAuth2 authorization-code issuance flow.
// The provider has a single registered client, so client validation is a
// comparison against configuration rather than a registry lookup.
type AuthorizeService struct {
	Codes     *store.CodeStore
	Authority CredentialAuthority
	Directory ProfileDirectory

	// ClientID is the single registered OAuth2 client.
	ClientID string

	// AllowedRedirects is the redirect_uri prefix allow-list. A request
	// redirect_uri is accepted when it starts with any entry.
	AllowedRedirects []string
}

// AuthorizeRequest captures the inputs of an authorization request.
type AuthorizeRequest struct {
	ResponseType string
	ClientID     string
	RedirectURI  string
	Scope        string
	State        string
	Nonce        string

	// Email/password pair from the login form submission.
	Email    string
	Password string
}

// AuthorizeCodeResponse contains the authorization code and redirect
// information. This is returned on successful authorization and should be
// used to build the redirect.
type AuthorizeCodeResponse struct {
	Code        string
	RedirectURI string
	State       string
}

// ValidateRequest checks the non-credential parts of an authorization
// request: response_type, client_id and the redirect_uri allow-list.
// A failure here must never redirect the browser, since the redirect_uri
// itself may be the invalid part.
func (s *AuthorizeService) ValidateRequest(req AuthorizeRequest) error {
	if strings.TrimSpace(req.ClientID) == "" || strings.TrimSpace(req.RedirectURI) == "" {
		return ErrInvalidRequest
	}
	if req.ClientID != s.ClientID {
		return ErrInvalidRequest
	}
	if !s.redirectAllowed(req.RedirectURI) {
		return ErrInvalidRedirect
	}
	if !strings.EqualFold(strings.TrimSpace(req.ResponseType), "code") {
		return ErrUnsupportedResponseType
	}
	return nil
}

// IssueCode implements the interactive half of the authorization code flow
// per RFC 6749 section 4.1: it authenticates the end user against the
// external authority, resolves their directory profile, and mints a
// single-use code bound to the request parameters.
//
// Returns:
//   - (*AuthorizeCodeResponse, nil) on success
//   - (nil, ErrInvalidRequest / ErrInvalidRedirect / ErrUnsupportedResponseType)
//     when the request itself is malformed
//   - (nil, ErrInvalidCredentials) when the authority rejects the password
//     or the directory does not know the subject
//   - (nil, ErrUpstreamUnavailable) when either upstream cannot be reached;
//     the request fails closed
func (s *AuthorizeService) IssueCode(ctx context.Context, req AuthorizeRequest) (*AuthorizeCodeResponse, error) {
	log := slogx.FromContext(ctx)

	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	// The external authority is the only credential oracle we have.
	if err := s.Authority.Validate(ctx, email, req.Password); err != nil {
		switch {
		case errors.Is(err, upstream.ErrDenied):
			return nil, ErrInvalidCredentials
		default:
			log.Error("authorize: authority unreachable", "error", err)
			return nil, ErrUpstreamUnavailable
		}
	}

	// The subject must exist in the directory before we will name them in
	// a token. Without a directory configured the email is the identity.
	profile := fallbackProfile(email)
	if s.Directory != nil {
		var err error
		profile, err = s.Directory.FindByEmail(ctx, email)
		if err != nil {
			switch {
			case errors.Is(err, upstream.ErrNotFound):
				log.Warn("authorize: authenticated subject missing from directory", "email", email)
				return nil, ErrInvalidCredentials
			default:
				log.Error("authorize: directory unreachable", "error", err)
				return nil, ErrUpstreamUnavailable
			}
		}
	}

	scope := normalizeScope(req.Scope)
	if scope == "" {
		scope = DefaultScope
	}

	code, err := s.Codes.Mint(domain.AuthorizationCode{
		ClientID:     req.ClientID,
		RedirectURI:  req.RedirectURI,
		Scope:        scope,
		State:        req.State,
		Nonce:        req.Nonce,
		SubjectID:    profile.ID,
		SubjectEmail: profile.Email,
	})
	if err != nil {
		return nil, err
	}

	log.Info("authorization code issued", "sub", profile.ID, "client_id", req.ClientID)

	return &AuthorizeCodeResponse{
		Code:        code,
		RedirectURI: req.RedirectURI,
		State:       req.State,
	}, nil
}

// redirectAllowed reports whether uri prefix-matches any allow-list entry.
func (s *AuthorizeService) redirectAllowed(uri string) bool {
	for _, prefix := range s.AllowedRedirects {
		if prefix != "" && strings.HasPrefix(uri, prefix) {
			return true
		}
	}
	return false
}

// normalizeScope collapses whitespace in a space-delimited scope string.
func normalizeScope(scope string) string {
	return strings.Join(strings.Fields(scope), " ")
}
