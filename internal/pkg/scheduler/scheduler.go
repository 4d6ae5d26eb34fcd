// Package scheduler runs named background jobs on fixed intervals. One
// goroutine per job means consecutive runs of the same job never overlap;
// jobs that guard against cross-process overlap do so themselves.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is a unit of periodic background work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type entry struct {
	job      Job
	interval time.Duration
}

// Scheduler ticks registered jobs until its context is canceled.
type Scheduler struct {
	logger *slog.Logger
	jobs   []entry
	wg     sync.WaitGroup
}

// New creates an empty Scheduler.
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Add registers a job to run at the given interval. Call before Start.
func (s *Scheduler) Add(job Job, interval time.Duration) {
	s.jobs = append(s.jobs, entry{job: job, interval: interval})
}

// Start launches one goroutine per job. Each job runs once immediately,
// then on every tick. Job errors are logged and the schedule continues;
// a failing job gets another chance next interval.
func (s *Scheduler) Start(ctx context.Context) {
	for _, e := range s.jobs {
		s.wg.Add(1)
		go func(e entry) {
			defer s.wg.Done()
			s.runLoop(ctx, e)
		}(e)
	}
}

// Wait blocks until all job goroutines have exited after context
// cancellation.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) runLoop(ctx context.Context, e entry) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	s.runOnce(ctx, e.job)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, e.job)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}

	started := time.Now()
	if err := job.Run(ctx); err != nil {
		s.logger.Error("background job failed",
			"job", job.Name(),
			"duration", time.Since(started),
			"err", err,
		)
		return
	}
	s.logger.Debug("background job completed",
		"job", job.Name(),
		"duration", time.Since(started),
	)
}
