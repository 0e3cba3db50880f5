// Package scheduler wires up the cron job that periodically reloads the
// category and location lookup cache.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Refresher reloads cached data from the store.
type Refresher interface {
	RefreshLookups(ctx context.Context) error
}

// Scheduler wraps robfig/cron and manages the refresh loop.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	spec      string // cron spec, e.g. "@every 5m"
	log       *slog.Logger
}

// New creates a Scheduler that fires every intervalMinutes minutes.
func New(refresher Refresher, intervalMinutes int, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		refresher: refresher,
		spec:      fmt.Sprintf("@every %dm", intervalMinutes),
		log:       logger,
	}
}

// Spec returns the cron expression the job is registered with.
func (s *Scheduler) Spec() string { return s.spec }

// Start registers the job and starts the scheduler. Also runs one refresh
// immediately so the cache is warm without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runRefresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info("lookup refresh scheduled", "spec", s.spec)

	go s.runRefresh(ctx)

	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("lookup refresh stopped")
}

func (s *Scheduler) runRefresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.refresher.RefreshLookups(ctx); err != nil {
		s.log.Warn("lookup refresh failed", "err", err)
		return
	}
	s.log.Debug("lookup refresh complete")
}
