package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/blog/store"
)

// HousekeepingService periodically deletes expired sessions so the
// sessions table does not grow without bound.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	// Lifecycle state, guarded by mu
	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
	}
}

// Start begins the background worker. Call Stop to shut it down. Starting a
// running worker does nothing.
func (s *HousekeepingService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.run(s.stopCh, s.doneCh)
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop signals the worker and blocks until any in-progress cleanup is done.
// It is a no-op when the worker is not running.
func (s *HousekeepingService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-stopCh:
			return
		}
	}
}

// RunOnce deletes expired sessions and returns how many were removed.
func (s *HousekeepingService) RunOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := s.Store.Sessions().DeleteExpiredSessions(ctx, s.Now())
	if err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
		return 0
	}

	s.Logger.Info("housekeeping cleanup completed", "expired_sessions", n)
	return n
}
