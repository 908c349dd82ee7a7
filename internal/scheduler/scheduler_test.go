package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/watshodapay/watshodapay-go/internal/metrics"
)

func TestEveryRunsRepeatedly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	s := New()
	s.Every("tick", 5*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestFailingJobIsCounted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	before := testutil.ToFloat64(metrics.JobRuns.WithLabelValues("broken", "error"))
	var runs atomic.Int32
	s := New()
	s.Every("broken", 5*time.Millisecond, func(context.Context) error {
		if runs.Add(1) == 1 {
			panic("boom")
		}
		return errors.New("still broken")
	})
	go func() { _ = s.Run(ctx) }()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.JobRuns.WithLabelValues("broken", "error"))-before >= 2
	}, time.Second, time.Millisecond)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func TestMonthlyRunsOnMonthChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := &fakeClock{t: time.Date(2024, time.March, 30, 23, 0, 0, 0, time.UTC)}
	var runs atomic.Int32

	s := New()
	s.now = clock.Now
	s.monthlyCheck = 2 * time.Millisecond
	s.Monthly("reset", func(context.Context) error {
		runs.Add(1)
		return nil
	})
	go func() { _ = s.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int32(0), runs.Load())

	clock.Set(time.Date(2024, time.April, 1, 0, 30, 0, 0, time.UTC))
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int32(1), runs.Load())
}

func TestRunWithoutJobsBlocksUntilCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New().Run(ctx) }()

	select {
	case <-done:
		t.Fatal("Run returned before cancel")
	case <-time.After(20 * time.Millisecond):
	}
	cancel()
	require.NoError(t, <-done)
}
