package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/libelulasoft/agil-idp/internal/idp/domain"
	"github.com/libelulasoft/agil-idp/internal/idp/upstream"
	"github.com/libelulasoft/agil-idp/pkg/jwtx"
)

// fakeAuthority scripts the external credential authority.
type fakeAuthority struct {
	err   error
	calls int
}

func (f *fakeAuthority) Validate(ctx context.Context, email, password string) error {
	f.calls++
	return f.err
}

// fakeDirectory scripts the external profile directory.
type fakeDirectory struct {
	profiles map[string]domain.Profile
	err      error
}

func (f *fakeDirectory) FindByEmail(ctx context.Context, email string) (domain.Profile, error) {
	if f.err != nil {
		return domain.Profile{}, f.err
	}
	p, ok := f.profiles[email]
	if !ok {
		return domain.Profile{}, upstream.ErrNotFound
	}
	return p, nil
}

func newTestSigner(t *testing.T) jwtx.Signer {
	t.Helper()
	signer, err := jwtx.NewSignerHS256("key-1", []byte("test-secret-with-enough-length"))
	require.NoError(t, err)
	return signer
}

func newTestVerifier(t *testing.T, issuer, clientID string) jwtx.Verifier {
	t.Helper()
	signer := newTestSigner(t)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	return jwtx.NewCommonHS256(keys, issuer, []string{clientID})
}

func testProfile() domain.Profile {
	return domain.Profile{
		ID:            "user-1",
		Email:         "ana@example.com",
		EmailVerified: true,
		Name:          "Ana Lopez",
		GivenName:     "Ana",
		FamilyName:    "Lopez",
		Username:      "ana",
	}
}
