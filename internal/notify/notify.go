// Package notify delivers expiring-debt reminders.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/watshodapay/watshodapay-go/internal/logger"
	"github.com/watshodapay/watshodapay-go/internal/model"
	"go.uber.org/zap"
)

// Reminder lists a user's unpaid debts due today or tomorrow.
type Reminder struct {
	User  model.User
	Debts []model.DebtView
}

// Notifier sends one reminder to one user.
type Notifier interface {
	NotifyExpiring(ctx context.Context, r Reminder) error
}

// LogNotifier only logs reminders. Used when no mail relay is configured.
type LogNotifier struct{}

func (LogNotifier) NotifyExpiring(ctx context.Context, r Reminder) error {
	logger.From(ctx).Info("expiring debts",
		logger.Component("notify"),
		logger.UserID(r.User.ID),
		logger.Count(len(r.Debts)),
		zap.Strings("debts", descriptions(r.Debts)),
	)
	return nil
}

func descriptions(debts []model.DebtView) []string {
	out := make([]string, len(debts))
	for i, d := range debts {
		out[i] = d.Description
	}
	return out
}

// Subject returns the mail subject for r.
func (r Reminder) Subject() string {
	if len(r.Debts) == 1 {
		return "1 debt is about to expire"
	}
	return fmt.Sprintf("%d debts are about to expire", len(r.Debts))
}

// Text renders the plain-text body of r.
func (r Reminder) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThe following debts are due soon:\n\n", r.User.Name)
	for _, d := range r.Debts {
		when := "tomorrow"
		if d.Status == model.StatusToday {
			when = "today"
		}
		value, _ := d.Value.MarshalJSON()
		fmt.Fprintf(&b, "- %s (day %d, %s): %s\n", d.Description, d.ExpirationDay, when, strings.Trim(string(value), `"`))
	}
	b.WriteString("\nwatshodapay\n")
	return b.String()
}
