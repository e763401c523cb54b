package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/devdiv-tools/jobdumper/internal/model"
)

// Runner is the unit of work the scheduler drives: one full pipeline run.
type Runner interface {
	Run(ctx context.Context) (*model.Artifact, error)
}

// Scheduler owns the main loop: ticks on an interval and triggers a pipeline
// run each time.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs the pipeline at the given interval.
func NewScheduler(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the loop. It triggers one immediate run, then ticks on the
// configured interval. A failed run is logged and the loop keeps going.
// Returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.runner.Run(ctx); err != nil {
		s.logger.Error("scheduled run failed", "error", err)
	}
}
