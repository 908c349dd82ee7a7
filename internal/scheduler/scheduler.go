// Package scheduler runs the periodic maintenance jobs in process.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/watshodapay/watshodapay-go/internal/logger"
	"github.com/watshodapay/watshodapay-go/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMonthlyCheck is how often a monthly job looks for a new month.
const DefaultMonthlyCheck = time.Hour

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

type entry struct {
	name    string
	every   time.Duration
	monthly bool
	fn      Job
}

// Scheduler runs registered jobs until its context ends.
type Scheduler struct {
	mu           sync.Mutex
	entries      []entry
	monthlyCheck time.Duration
	now          func() time.Time
}

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{monthlyCheck: DefaultMonthlyCheck, now: time.Now}
}

// Every runs fn every interval, first after one interval has passed.
func (s *Scheduler) Every(name string, interval time.Duration, fn Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{name: name, every: interval, fn: fn})
}

// Monthly runs fn once whenever the calendar month changes while the
// scheduler is running. Starting mid-month does not trigger it.
func (s *Scheduler) Monthly(name string, fn Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{name: name, monthly: true, fn: fn})
}

// Run blocks until ctx is cancelled. Job failures are logged and counted,
// never returned.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	entries := append([]entry(nil), s.entries...)
	s.mu.Unlock()

	log := logger.Named("scheduler")
	log.Info("scheduler started", logger.Count(len(entries)))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})
	for _, e := range entries {
		if e.monthly {
			g.Go(func() error { s.monthlyLoop(gctx, e); return nil })
		} else {
			g.Go(func() error { s.everyLoop(gctx, e); return nil })
		}
	}
	err := g.Wait()
	log.Info("scheduler stopped")
	return err
}

func (s *Scheduler) everyLoop(ctx context.Context, e entry) {
	ticker := time.NewTicker(e.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.execute(ctx, e)
		}
	}
}

func (s *Scheduler) monthlyLoop(ctx context.Context, e entry) {
	ticker := time.NewTicker(s.monthlyCheck)
	defer ticker.Stop()

	last := monthOf(s.now())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if current := monthOf(s.now()); current != last {
				last = current
				s.execute(ctx, e)
			}
		}
	}
}

func monthOf(t time.Time) string {
	return t.Format("2006-01")
}

// execute runs one job invocation with logging, metrics and panic recovery.
func (s *Scheduler) execute(ctx context.Context, e entry) {
	log := logger.Named("scheduler").With(logger.Job(e.name))
	ctx = logger.ToContext(ctx, log)
	start := time.Now()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return e.fn(ctx)
	}()

	if err != nil {
		metrics.JobRuns.WithLabelValues(e.name, "error").Inc()
		log.Error("job failed", logger.Duration(time.Since(start)), logger.Err(err))
		return
	}
	metrics.JobRuns.WithLabelValues(e.name, "ok").Inc()
	log.Info("job finished", logger.Duration(time.Since(start)), zap.Time("at", s.now()))
}
