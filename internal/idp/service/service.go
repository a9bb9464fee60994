// Package service implements the issuance engine and grant handling that
// sit between the HTTP layer and the stores/upstreams. Services return
// sentinel errors; only the HTTP layer turns those into wire responses.
package service

import (
	"context"
	"errors"

	"github.com/libelulasoft/agil-idp/internal/idp/domain"
)

var (
	ErrInvalidRequest          = errors.New("invalid_request")
	ErrInvalidClient           = errors.New("invalid_client")
	ErrInvalidGrant            = errors.New("invalid_grant")
	ErrInvalidCredentials      = errors.New("invalid_credentials")
	ErrInvalidRedirect         = errors.New("invalid_redirect_uri")
	ErrUnsupportedResponseType = errors.New("unsupported_response_type")
	ErrUnsupportedGrantType    = errors.New("unsupported_grant_type")
	ErrUpstreamUnavailable     = errors.New("upstream_unavailable")
)

// CredentialAuthority validates end-user credentials against the external
// authentication service.
type CredentialAuthority interface {
	Validate(ctx context.Context, email, password string) error
}

// ProfileDirectory resolves end-user profiles from the external directory.
type ProfileDirectory interface {
	FindByEmail(ctx context.Context, email string) (domain.Profile, error)
}

// fallbackProfile identifies the subject by email alone. Used when no
// profile directory is configured.
func fallbackProfile(email string) domain.Profile {
	return domain.Profile{ID: email, Email: email}
}
