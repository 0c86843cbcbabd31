package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler fires a job at wall-clock-aligned interval boundaries (an
// hourly job runs at the top of each hour). Runs execute sequentially
// in the loop; if a run overlaps the next boundary the loop re-arms to
// the first boundary still in the future, so a slow run skips ticks
// rather than queueing them.
type Scheduler struct {
	name     string
	interval time.Duration
	job      Job
	log      *zap.Logger
	now      func() time.Time
}

func New(name string, interval time.Duration, job Job, log *zap.Logger) *Scheduler {
	return &Scheduler{
		name:     name,
		interval: interval,
		job:      job,
		log:      log,
		now:      time.Now,
	}
}

// Start blocks until ctx is cancelled, firing the job at every aligned
// boundary. A panicking run is recovered and logged; the next tick
// proceeds independently.
func (s *Scheduler) Start(ctx context.Context) {
	for {
		next := s.nextBoundary()
		timer := time.NewTimer(next.Sub(s.now()))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("Scheduler stopped", zap.String("job", s.name))
			return
		case <-timer.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) nextBoundary() time.Time {
	now := s.now()
	return now.Truncate(s.interval).Add(s.interval)
}

func (s *Scheduler) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Scheduled job panicked",
				zap.String("job", s.name),
				zap.Any("panic", r),
			)
		}
	}()

	if err := s.job(ctx); err != nil {
		s.log.Error("Scheduled job failed",
			zap.String("job", s.name),
			zap.Error(err),
		)
	}
}
