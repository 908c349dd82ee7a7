package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/watshodapay/watshodapay-go/internal/logger"
	"github.com/watshodapay/watshodapay-go/internal/metrics"
	"github.com/watshodapay/watshodapay-go/internal/model"
	"github.com/watshodapay/watshodapay-go/internal/notify"
	"github.com/watshodapay/watshodapay-go/internal/repository"
	"golang.org/x/sync/errgroup"
)

// notifyConcurrency bounds the reminders sent in parallel.
const notifyConcurrency = 4

// MaintenanceService runs the periodic jobs.
type MaintenanceService struct {
	users    repository.UserStore
	debts    *DebtService
	notifier notify.Notifier
	now      func() time.Time
}

// NewMaintenanceService creates a new MaintenanceService. A nil notifier
// falls back to notify.LogNotifier.
func NewMaintenanceService(users repository.UserStore, debts *DebtService, notifier notify.Notifier) *MaintenanceService {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &MaintenanceService{users: users, debts: debts, notifier: notifier, now: time.Now}
}

// ResetPayedStatus clears the paid flag of every debt. It runs at the start
// of each month.
func (s *MaintenanceService) ResetPayedStatus(ctx context.Context) (int64, error) {
	n, err := s.debts.ResetAllPayed(ctx)
	if err != nil {
		return 0, fmt.Errorf("reset payed status: %w", err)
	}
	metrics.DebtsReset.Add(float64(n))
	logger.From(ctx).Info("payed status reset", logger.Job("reset-payed"), logger.Count(int(n)))
	return n, nil
}

// CheckExpiringDebts sends one reminder per user holding unpaid debts due
// today or tomorrow and returns how many reminders went out. A failing
// user does not stop the others; their failures are joined under
// ErrNotificationFailed.
func (s *MaintenanceService) CheckExpiringDebts(ctx context.Context) (int, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("check expiring debts: %w", err)
	}

	log := logger.From(ctx).With(logger.Job("check-expiring"))
	now := s.now()

	var (
		sent atomic.Int64
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(notifyConcurrency)
	for i := range users {
		u := users[i]
		g.Go(func() error {
			debts, err := s.debts.ListDebts(gctx, u.ID)
			if err != nil {
				fail(fmt.Errorf("user %d: %w", u.ID, err))
				return nil
			}
			summary := model.Summarize(debts, now)
			if !summary.HasExpiring() {
				return nil
			}

			due := make([]model.DebtView, 0, len(summary.Today)+len(summary.Tomorrow))
			due = append(due, summary.Today...)
			due = append(due, summary.Tomorrow...)
			if err := s.notifier.NotifyExpiring(gctx, notify.Reminder{User: u, Debts: due}); err != nil {
				metrics.NotificationsSent.WithLabelValues("error").Inc()
				log.Warn("reminder not sent", logger.UserID(u.ID), logger.Err(err))
				fail(fmt.Errorf("user %d: %w", u.ID, err))
				return nil
			}
			metrics.NotificationsSent.WithLabelValues("ok").Inc()
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	n := int(sent.Load())
	log.Info("expiring debts checked", logger.Count(n), logger.Component("maintenance"))
	if len(errs) > 0 {
		return n, fmt.Errorf("%w: %w", ErrNotificationFailed, errors.Join(errs...))
	}
	return n, nil
}
