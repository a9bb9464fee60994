package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/libelulasoft/agil-idp/internal/idp/domain"
)

func TestCodeStoreMintRedeem(t *testing.T) {
	t.Parallel()

	s := NewCodeStore(0)

	code, err := s.Mint(domain.AuthorizationCode{
		ClientID:     "client-1",
		RedirectURI:  "https://app.test/callback",
		Scope:        "openid profile",
		State:        "xyz",
		Nonce:        "n-1",
		SubjectID:    "user-1",
		SubjectEmail: "user@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, code)
	require.Equal(t, 1, s.Len())

	rec, err := s.Redeem(code)
	require.NoError(t, err)
	require.Equal(t, "client-1", rec.ClientID)
	require.Equal(t, "https://app.test/callback", rec.RedirectURI)
	require.Equal(t, "openid profile", rec.Scope)
	require.Equal(t, "n-1", rec.Nonce)
	require.Equal(t, "user-1", rec.SubjectID)
	require.Equal(t, "user@example.com", rec.SubjectEmail)
	require.Equal(t, 0, s.Len())

	// Replay must look exactly like a code that never existed.
	_, err = s.Redeem(code)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCodeStoreUnknownCode(t *testing.T) {
	t.Parallel()

	s := NewCodeStore(0)
	_, err := s.Redeem("never-issued")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCodeStoreConcurrentRedeem(t *testing.T) {
	t.Parallel()

	s := NewCodeStore(0)
	code, err := s.Mint(domain.AuthorizationCode{ClientID: "client-1", SubjectID: "user-1"})
	require.NoError(t, err)

	const workers = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Redeem(code); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	require.Len(t, wins, 1, "exactly one concurrent redemption must win")
}

func TestCodeStoreExpiry(t *testing.T) {
	t.Parallel()

	s := NewCodeStore(10 * time.Minute)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	current := base
	s.SetClock(func() time.Time { return current })

	code, err := s.Mint(domain.AuthorizationCode{ClientID: "client-1", SubjectID: "user-1"})
	require.NoError(t, err)

	// Just inside the lifetime still redeems.
	current = base.Add(10*time.Minute - time.Second)
	rec, err := s.Redeem(code)
	require.NoError(t, err)
	require.Equal(t, "user-1", rec.SubjectID)

	// A second code taken past the boundary is gone.
	current = base
	code, err = s.Mint(domain.AuthorizationCode{ClientID: "client-1"})
	require.NoError(t, err)

	current = base.Add(11 * time.Minute)
	_, err = s.Redeem(code)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCodeStorePurgeExpired(t *testing.T) {
	t.Parallel()

	s := NewCodeStore(10 * time.Minute)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	current := base
	s.SetClock(func() time.Time { return current })

	for range 3 {
		_, err := s.Mint(domain.AuthorizationCode{ClientID: "client-1"})
		require.NoError(t, err)
	}

	current = base.Add(5 * time.Minute)
	_, err := s.Mint(domain.AuthorizationCode{ClientID: "client-1"})
	require.NoError(t, err)

	current = base.Add(12 * time.Minute)
	require.Equal(t, 3, s.PurgeExpired())
	require.Equal(t, 1, s.Len())
}
