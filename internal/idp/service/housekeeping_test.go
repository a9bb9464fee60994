package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/libelulasoft/agil-idp/internal/idp/domain"
	"github.com/libelulasoft/agil-idp/internal/idp/store"
	"github.com/libelulasoft/agil-idp/pkg/slogx"
)

func TestHousekeepingSweepsExpiredCodes(t *testing.T) {
	t.Parallel()

	codes := store.NewCodeStore(10 * time.Minute)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	current := base
	codes.SetClock(func() time.Time { return current })

	_, err := codes.Mint(domain.AuthorizationCode{ClientID: "client-1"})
	require.NoError(t, err)
	require.Equal(t, 1, codes.Len())

	current = base.Add(11 * time.Minute)

	svc := NewHousekeepingService(codes, slogx.Discard(), 10*time.Millisecond)
	svc.Start()
	defer svc.Stop()

	require.Eventually(t, func() bool {
		return codes.Len() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHousekeepingStopIsClean(t *testing.T) {
	t.Parallel()

	svc := NewHousekeepingService(store.NewCodeStore(0), slogx.Discard(), time.Minute)
	svc.Start()

	done := make(chan struct{})
	go func() {
		svc.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestHousekeepingDefaultInterval(t *testing.T) {
	t.Parallel()

	svc := NewHousekeepingService(store.NewCodeStore(0), slogx.Discard(), 0)
	require.Equal(t, 5*time.Minute, svc.Interval)
}
