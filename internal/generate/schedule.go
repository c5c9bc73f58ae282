package generate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/logfields"
)

// Scheduler re-runs a generation task on a cron expression.
type Scheduler struct {
	scheduler gocron.Scheduler
	expr      string
	logger    *slog.Logger
}

// NewScheduler creates a scheduler for a five-field cron expression.
func NewScheduler(expr string, logger *slog.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{scheduler: s, expr: expr, logger: logger}, nil
}

// Run executes task once, then on every schedule tick until ctx is done.
// Overlapping ticks are skipped while a run is in progress.
func (s *Scheduler) Run(ctx context.Context, task func(context.Context) error) error {
	defer func() { _ = s.scheduler.Shutdown() }()

	exec := func() {
		if err := task(ctx); err != nil {
			s.logger.Error("Scheduled generation failed", logfields.Schedule(s.expr), logfields.Error(err))
		}
	}
	if _, err := s.scheduler.NewJob(
		gocron.CronJob(s.expr, false),
		gocron.NewTask(exec),
		gocron.WithName("generate"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return fmt.Errorf("failed to schedule generation: %w", err)
	}

	exec()
	if ctx.Err() != nil {
		return nil
	}
	s.logger.Info("Starting scheduler", logfields.Schedule(s.expr))
	s.scheduler.Start()
	<-ctx.Done()
	s.logger.Info("Stopping scheduler")
	return nil
}
