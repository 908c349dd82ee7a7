package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/watshodapay/watshodapay-go/internal/logger"
	"github.com/watshodapay/watshodapay-go/internal/metrics"
	"github.com/watshodapay/watshodapay-go/internal/model"
	"github.com/watshodapay/watshodapay-go/internal/repository"
)

// PaymentService manages payments and the monthly generation.
type PaymentService struct {
	payments repository.PaymentStore
	debts    *DebtService
	now      func() time.Time
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(payments repository.PaymentStore, debts *DebtService) *PaymentService {
	return &PaymentService{payments: payments, debts: debts, now: time.Now}
}

// Period resolves a zero year or month to the current period.
func (s *PaymentService) Period(year, month int) (int, int, error) {
	now := s.now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return 0, 0, ErrInvalidPeriod
	}
	return year, month, nil
}

// GenerateMonthPayments creates one unpaid payment for (year, month) per
// recurrent or active debt of userID. An active debt loses one occurrence
// right after its payment is created. Exhausted debts are skipped.
//
// A debt that already has a payment for the period is skipped and keeps its
// quantity, so a re-run fills in only what is missing. The skipped debts are
// reported together as a repository.ErrAlreadyExists error, returned along
// with the payments that were created.
func (s *PaymentService) GenerateMonthPayments(ctx context.Context, userID int64, year, month int) ([]model.PaymentView, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidPeriod
	}
	log := logger.From(ctx).With(logger.UserID(userID), logger.Period(year, month))

	debts, err := s.debts.ListDebts(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]model.PaymentView, 0, len(debts))
	var conflicts []error
	for i := range debts {
		d := &debts[i]
		if !d.IsActive() && !d.IsRecurrent() {
			continue
		}

		p, err := s.payments.Create(ctx, model.PaymentInput{
			UserID: userID,
			DebtID: d.ID,
			Year:   year,
			Month:  month,
		})
		if repository.IsAlreadyExists(err) {
			log.Debug("payment already generated", logger.DebtID(d.ID))
			conflicts = append(conflicts, fmt.Errorf("debt %d: %w", d.ID, err))
			continue
		}
		if err != nil {
			log.Warn("month generation stopped", logger.DebtID(d.ID), logger.Err(err))
			return views, fmt.Errorf("generate payments: debt %d: %w", d.ID, err)
		}
		metrics.PaymentsGenerated.Inc()

		if d.IsActive() {
			if d, err = s.debts.DecreaseQuantity(ctx, d); err != nil {
				log.Error("payment created without its decrement", logger.PaymentID(p.ID), logger.Err(err))
				return views, fmt.Errorf("generate payments: debt %d: %w", debts[i].ID, err)
			}
		}
		views = append(views, model.NewPaymentView(p, d, now))
	}

	log.Info("month payments generated", logger.Count(len(views)), logger.Skipped(len(conflicts)))
	if len(conflicts) > 0 {
		return views, fmt.Errorf("generate payments: %w", errors.Join(conflicts...))
	}
	return views, nil
}

// CreatePayment either creates one ad-hoc payment (req.Single) or runs the
// month generation for the requested period, defaulting to the current one.
func (s *PaymentService) CreatePayment(ctx context.Context, userID int64, req model.PaymentRequest) ([]model.PaymentView, error) {
	year, month, err := s.Period(req.Year, req.Month)
	if err != nil {
		return nil, err
	}
	if !req.Single {
		return s.GenerateMonthPayments(ctx, userID, year, month)
	}

	var debt *model.Debt
	switch {
	case req.Debt != nil:
		debt, err = s.debts.AddDebt(ctx, req.Debt.Input(userID))
	case req.DebtID != 0:
		debt, err = s.debts.GetDebt(ctx, userID, req.DebtID)
	default:
		err = ErrDebtRequired
	}
	if err != nil {
		return nil, err
	}

	in := model.PaymentInput{
		UserID:      userID,
		DebtID:      debt.ID,
		Year:        year,
		Month:       month,
		IsPayed:     req.IsPayed,
		PaymentInfo: req.PaymentInfo,
	}
	if req.Value != nil {
		in.Value = decimal.NewNullDecimal(*req.Value)
	}
	p, err := s.payments.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	metrics.PaymentsGenerated.Inc()
	logger.From(ctx).Info("single payment created", logger.UserID(userID), logger.PaymentID(p.ID), logger.DebtID(debt.ID))

	return []model.PaymentView{model.NewPaymentView(p, debt, s.now())}, nil
}

// ListPayments returns the payments of userID for a period, defaulting to
// the current one.
func (s *PaymentService) ListPayments(ctx context.Context, userID int64, year, month int) ([]model.PaymentView, error) {
	year, month, err := s.Period(year, month)
	if err != nil {
		return nil, err
	}

	payments, err := s.payments.ListWhere(ctx, repository.Filter{"user_id": userID, "year": year, "month": month})
	if err != nil {
		return nil, err
	}
	debts, err := s.debts.ListDebts(ctx, userID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.Debt, len(debts))
	for i := range debts {
		byID[debts[i].ID] = &debts[i]
	}

	now := s.now()
	views := make([]model.PaymentView, 0, len(payments))
	for i := range payments {
		d, ok := byID[payments[i].DebtID]
		if !ok {
			return nil, fmt.Errorf("payment %d: debt %d: %w", payments[i].ID, payments[i].DebtID, repository.ErrNotFound)
		}
		views = append(views, model.NewPaymentView(&payments[i], d, now))
	}
	return views, nil
}

// GetPayment returns payment id of userID with its debt.
func (s *PaymentService) GetPayment(ctx context.Context, userID, id int64) (model.PaymentView, error) {
	p, d, err := s.load(ctx, userID, id)
	if err != nil {
		return model.PaymentView{}, err
	}
	return model.NewPaymentView(p, d, s.now()), nil
}

// UpdatePayment applies patch to payment id of userID.
func (s *PaymentService) UpdatePayment(ctx context.Context, userID, id int64, patch model.PaymentPatch) (model.PaymentView, error) {
	p, d, err := s.load(ctx, userID, id)
	if err != nil {
		return model.PaymentView{}, err
	}
	updated, err := s.payments.Update(ctx, p, patch)
	if err != nil {
		return model.PaymentView{}, err
	}
	return model.NewPaymentView(updated, d, s.now()), nil
}

func (s *PaymentService) load(ctx context.Context, userID, id int64) (*model.Payment, *model.Debt, error) {
	p, err := s.payments.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p.UserID != userID {
		return nil, nil, fmt.Errorf("payments %d: %w", id, repository.ErrNotFound)
	}
	d, err := s.debts.GetDebt(ctx, userID, p.DebtID)
	if err != nil {
		return nil, nil, err
	}
	return p, d, nil
}
