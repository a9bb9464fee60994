package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/libelulasoft/agil-idp/internal/idp/domain"
	"github.com/libelulasoft/agil-idp/internal/idp/store"
	"github.com/libelulasoft/agil-idp/internal/idp/upstream"
)

func TestUserInfoResolve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	record := domain.AccessToken{
		SubjectID:    "user-1",
		SubjectEmail: "ana@example.com",
		ClientID:     "client-1",
		Scope:        "openid profile email",
	}

	t.Run("resolves token and profile", func(t *testing.T) {
		tokens := store.NewTokenStore(0)
		tokens.Record("token-abc", record)

		svc := &UserInfoService{
			Tokens:    tokens,
			Directory: &fakeDirectory{profiles: map[string]domain.Profile{"ana@example.com": testProfile()}},
		}

		rec, profile, err := svc.Resolve(ctx, "token-abc")
		require.NoError(t, err)
		require.Equal(t, "user-1", rec.SubjectID)
		require.Equal(t, "openid profile email", rec.Scope)
		require.Equal(t, "Ana Lopez", profile.Name)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc := &UserInfoService{Tokens: store.NewTokenStore(0)}

		_, _, err := svc.Resolve(ctx, "token-unknown")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("directory outage degrades to stored identity", func(t *testing.T) {
		tokens := store.NewTokenStore(0)
		tokens.Record("token-abc", record)

		svc := &UserInfoService{
			Tokens:    tokens,
			Directory: &fakeDirectory{err: upstream.ErrUnavailable},
		}

		rec, profile, err := svc.Resolve(ctx, "token-abc")
		require.NoError(t, err)
		require.Equal(t, "user-1", rec.SubjectID)
		require.Equal(t, "user-1", profile.ID)
		require.Empty(t, profile.Name)
	})

	t.Run("no directory configured", func(t *testing.T) {
		tokens := store.NewTokenStore(0)
		tokens.Record("token-abc", record)

		svc := &UserInfoService{Tokens: tokens}

		_, profile, err := svc.Resolve(ctx, "token-abc")
		require.NoError(t, err)
		require.Equal(t, "user-1", profile.ID)
		require.Equal(t, "ana@example.com", profile.Email)
	})
}
