package service

import (
	"context"
	"fmt"
	"time"

	"github.com/watshodapay/watshodapay-go/internal/logger"
	"github.com/watshodapay/watshodapay-go/internal/model"
	"github.com/watshodapay/watshodapay-go/internal/repository"
	"golang.org/x/sync/singleflight"
)

// DebtService manages a user's debts.
type DebtService struct {
	debts     repository.DebtStore
	summaries *SummaryCache
	now       func() time.Time

	// sf collapses concurrent summary builds for the same cache key.
	sf singleflight.Group
}

// NewDebtService creates a new DebtService. summaries may be nil.
func NewDebtService(debts repository.DebtStore, summaries *SummaryCache) *DebtService {
	return &DebtService{debts: debts, summaries: summaries, now: time.Now}
}

// ListDebts returns every debt of userID.
func (s *DebtService) ListDebts(ctx context.Context, userID int64) ([]model.Debt, error) {
	return s.debts.ListWhere(ctx, repository.Filter{"user_id": userID})
}

// Summary returns the debts of userID grouped by status for today.
func (s *DebtService) Summary(ctx context.Context, userID int64) (model.DebtsSummary, error) {
	now := s.now()
	cached, key, ok := s.summaries.Get(ctx, userID, now)
	if ok {
		return cached, nil
	}

	flight := fmt.Sprintf("%d:%s:%s", userID, now.Format("2006-01-02"), key)
	v, err, _ := s.sf.Do(flight, func() (any, error) {
		debts, err := s.ListDebts(ctx, userID)
		if err != nil {
			return nil, err
		}
		summary := model.Summarize(debts, now)
		s.summaries.Put(ctx, key, summary)
		return summary, nil
	})
	if err != nil {
		return model.DebtsSummary{}, err
	}
	return v.(model.DebtsSummary), nil
}

// GetDebt returns debt id of userID. Debts of other users are reported as
// not found.
func (s *DebtService) GetDebt(ctx context.Context, userID, id int64) (*model.Debt, error) {
	d, err := s.debts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, fmt.Errorf("debts %d: %w", id, repository.ErrNotFound)
	}
	return d, nil
}

// AddDebt creates a debt for the user in in.UserID.
func (s *DebtService) AddDebt(ctx context.Context, in model.DebtInput) (*model.Debt, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	d, err := s.debts.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.summaries.Invalidate(ctx, in.UserID)
	logger.From(ctx).Info("debt created", logger.UserID(in.UserID), logger.DebtID(d.ID))
	return d, nil
}

// UpdateDebt applies patch to debt id of userID.
func (s *DebtService) UpdateDebt(ctx context.Context, userID, id int64, patch model.DebtPatch) (*model.Debt, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	d, err := s.GetDebt(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.debts.Update(ctx, d, patch)
	if err != nil {
		return nil, err
	}
	s.summaries.Invalidate(ctx, userID)
	return updated, nil
}

// DecreaseQuantity consumes one occurrence of d and persists it. It fails
// with model.ErrInvalidState for recurrent or exhausted debts.
func (s *DebtService) DecreaseQuantity(ctx context.Context, d *model.Debt) (*model.Debt, error) {
	next := *d
	if err := next.DecreaseQuantity(); err != nil {
		return nil, err
	}
	updated, err := s.debts.Update(ctx, d, model.DebtPatch{Quantity: next.Quantity})
	if err != nil {
		return nil, err
	}
	s.summaries.Invalidate(ctx, d.UserID)
	return updated, nil
}

// ResetAllPayed clears the paid flag of every debt of every user in one
// bulk update and returns how many debts changed.
func (s *DebtService) ResetAllPayed(ctx context.Context) (int64, error) {
	n, err := s.debts.ClearAllPayed(ctx)
	if err != nil {
		return 0, err
	}
	s.summaries.InvalidateAll(ctx)
	return n, nil
}
