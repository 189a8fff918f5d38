package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the watch cycle on a fixed interval.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger
}

// NewScheduler creates a Scheduler that runs the engine's watches
// every scanInterval.
func NewScheduler(eng *Engine, scanInterval time.Duration, log *slog.Logger) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
	}

	if _, err := c.AddFunc("@every "+scanInterval.String(), s.runCycle); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled scans.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runCycle() {
	ctx := context.Background()
	s.log.Info("scheduled watch cycle starting")
	if err := s.engine.RunWatches(ctx); err != nil {
		s.log.Error("scheduled watch cycle failed", "error", err)
	}
}
