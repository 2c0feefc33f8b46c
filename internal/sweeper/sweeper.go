package sweeper

import (
	"context"
	"fmt"
	"time"

	"smartparking/pkg/config"
	"smartparking/pkg/logger"

	"github.com/robfig/cron/v3"
)

type Completer interface {
	CompleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Sweeper periodically moves finished active reservations to Completed.
type Sweeper struct {
	completer Completer
	cron      *cron.Cron
	cfg       *config.Config
	log       *logger.Logger
	now       func() time.Time
}

func New(completer Completer, cfg *config.Config) *Sweeper {
	return &Sweeper{
		completer: completer,
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		cfg:       cfg,
		log:       cfg.Log.With("completion_sweeper"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start schedules the sweep on CompletionSweepSchedule and returns immediately.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.CompletionSweepSchedule, s.runOnce); err != nil {
		return fmt.Errorf("invalid completion sweep schedule %q: %w", s.cfg.CompletionSweepSchedule, err)
	}
	s.cron.Start()
	s.log.Info("Completion sweeper started", "schedule", s.cfg.CompletionSweepSchedule)
	return nil
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Sweeper) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Completion sweeper did not stop in time")
	}
}

func (s *Sweeper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
	defer cancel()

	if _, err := s.Sweep(ctx); err != nil {
		s.log.Error("Completion sweep failed", "error", err)
	}
}

func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	completed, err := s.completer.CompleteExpired(ctx, s.now())
	if err != nil {
		return completed, err
	}
	if completed > 0 {
		s.log.Info("Completion sweep finished", "completed", completed)
	}
	return completed, nil
}
