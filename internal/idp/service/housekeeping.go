package service

import (
	"log/slog"
	"time"

	"github.com/libelulasoft/agil-idp/internal/idp/store"
)

// HousekeepingService periodically sweeps expired authorization codes so
// abandoned logins don't accumulate. Access tokens don't need this; the
// token store's cache janitor already reclaims them.
type HousekeepingService struct {
	Codes    *store.CodeStore
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 5 minutes.
func NewHousekeepingService(codes *store.CodeStore, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &HousekeepingService{
		Codes:    codes,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs the sweep.
// This is non-blocking. Call Stop() to gracefully shut the worker down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress sweep.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

// run is the main background worker loop.
func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep drops expired authorization codes.
func (s *HousekeepingService) sweep() {
	purged := s.Codes.PurgeExpired()
	if purged > 0 {
		s.Logger.Info("purged expired authorization codes", "count", purged)
	} else {
		s.Logger.Debug("no expired authorization codes to purge")
	}
}
