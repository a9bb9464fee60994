package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/libelulasoft/agil-idp/internal/idp/domain"
	"github.com/libelulasoft/agil-idp/internal/idp/store"
	"github.com/libelulasoft/agil-idp/internal/idp/upstream"
)

func newAuthorizeService(authority *fakeAuthority, directory *fakeDirectory) (*AuthorizeService, *store.CodeStore) {
	codes := store.NewCodeStore(0)
	svc := &AuthorizeService{
		Codes:            codes,
		Authority:        authority,
		ClientID:         "client-1",
		AllowedRedirects: []string{"https://app.test/", "http://localhost:3000"},
	}
	if directory != nil {
		svc.Directory = directory
	}
	return svc, codes
}

func validAuthorizeRequest() AuthorizeRequest {
	return AuthorizeRequest{
		ResponseType: "code",
		ClientID:     "client-1",
		RedirectURI:  "https://app.test/callback",
		Scope:        "openid profile",
		State:        "st-1",
		Nonce:        "n-1",
		Email:        "ana@example.com",
		Password:     "hunter2",
	}
}

func TestAuthorizeValidateRequest(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthorizeService(&fakeAuthority{}, nil)

	t.Run("accepts a valid request", func(t *testing.T) {
		require.NoError(t, svc.ValidateRequest(validAuthorizeRequest()))
	})

	t.Run("missing client or redirect", func(t *testing.T) {
		req := validAuthorizeRequest()
		req.ClientID = ""
		require.ErrorIs(t, svc.ValidateRequest(req), ErrInvalidRequest)

		req = validAuthorizeRequest()
		req.RedirectURI = ""
		require.ErrorIs(t, svc.ValidateRequest(req), ErrInvalidRequest)
	})

	t.Run("unknown client", func(t *testing.T) {
		req := validAuthorizeRequest()
		req.ClientID = "someone-else"
		require.ErrorIs(t, svc.ValidateRequest(req), ErrInvalidRequest)
	})

	t.Run("redirect outside the allow-list", func(t *testing.T) {
		req := validAuthorizeRequest()
		req.RedirectURI = "https://evil.test/callback"
		require.ErrorIs(t, svc.ValidateRequest(req), ErrInvalidRedirect)
	})

	t.Run("prefix matching admits sub-paths", func(t *testing.T) {
		req := validAuthorizeRequest()
		req.RedirectURI = "http://localhost:3000/auth/done"
		require.NoError(t, svc.ValidateRequest(req))
	})

	t.Run("unsupported response type", func(t *testing.T) {
		req := validAuthorizeRequest()
		req.ResponseType = "token"
		require.ErrorIs(t, svc.ValidateRequest(req), ErrUnsupportedResponseType)
	})
}

func TestAuthorizeIssueCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("happy path binds the request to the code", func(t *testing.T) {
		directory := &fakeDirectory{profiles: map[string]domain.Profile{"ana@example.com": testProfile()}}
		svc, codes := newAuthorizeService(&fakeAuthority{}, directory)

		resp, err := svc.IssueCode(ctx, validAuthorizeRequest())
		require.NoError(t, err)
		require.NotEmpty(t, resp.Code)
		require.Equal(t, "https://app.test/callback", resp.RedirectURI)
		require.Equal(t, "st-1", resp.State)

		rec, err := codes.Redeem(resp.Code)
		require.NoError(t, err)
		require.Equal(t, "client-1", rec.ClientID)
		require.Equal(t, "https://app.test/callback", rec.RedirectURI)
		require.Equal(t, "openid profile", rec.Scope)
		require.Equal(t, "n-1", rec.Nonce)
		require.Equal(t, "user-1", rec.SubjectID)
		require.Equal(t, "ana@example.com", rec.SubjectEmail)
	})

	t.Run("empty scope defaults to openid", func(t *testing.T) {
		directory := &fakeDirectory{profiles: map[string]domain.Profile{"ana@example.com": testProfile()}}
		svc, codes := newAuthorizeService(&fakeAuthority{}, directory)

		req := validAuthorizeRequest()
		req.Scope = "   "
		resp, err := svc.IssueCode(ctx, req)
		require.NoError(t, err)

		rec, err := codes.Redeem(resp.Code)
		require.NoError(t, err)
		require.Equal(t, DefaultScope, rec.Scope)
	})

	t.Run("missing credentials", func(t *testing.T) {
		svc, _ := newAuthorizeService(&fakeAuthority{}, nil)

		req := validAuthorizeRequest()
		req.Password = ""
		_, err := svc.IssueCode(ctx, req)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("authority rejects the password", func(t *testing.T) {
		svc, _ := newAuthorizeService(&fakeAuthority{err: upstream.ErrDenied}, nil)

		_, err := svc.IssueCode(ctx, validAuthorizeRequest())
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("authority outage fails closed", func(t *testing.T) {
		svc, _ := newAuthorizeService(&fakeAuthority{err: upstream.ErrUnavailable}, nil)

		_, err := svc.IssueCode(ctx, validAuthorizeRequest())
		require.ErrorIs(t, err, ErrUpstreamUnavailable)
	})

	t.Run("authenticated subject missing from directory", func(t *testing.T) {
		svc, _ := newAuthorizeService(&fakeAuthority{}, &fakeDirectory{})

		_, err := svc.IssueCode(ctx, validAuthorizeRequest())
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("directory outage fails closed", func(t *testing.T) {
		svc, _ := newAuthorizeService(&fakeAuthority{}, &fakeDirectory{err: upstream.ErrUnavailable})

		_, err := svc.IssueCode(ctx, validAuthorizeRequest())
		require.ErrorIs(t, err, ErrUpstreamUnavailable)
	})

	t.Run("no directory configured falls back to email identity", func(t *testing.T) {
		svc, codes := newAuthorizeService(&fakeAuthority{}, nil)

		resp, err := svc.IssueCode(ctx, validAuthorizeRequest())
		require.NoError(t, err)

		rec, err := codes.Redeem(resp.Code)
		require.NoError(t, err)
		require.Equal(t, "ana@example.com", rec.SubjectID)
		require.Equal(t, "ana@example.com", rec.SubjectEmail)
	})

	t.Run("invalid request never reaches the authority", func(t *testing.T) {
		authority := &fakeAuthority{}
		svc, _ := newAuthorizeService(authority, nil)

		req := validAuthorizeRequest()
		req.RedirectURI = "https://evil.test/callback"
		_, err := svc.IssueCode(ctx, req)
		require.ErrorIs(t, err, ErrInvalidRedirect)
		require.Zero(t, authority.calls)
	})
}
