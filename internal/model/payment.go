package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one period's instance of a debt.
type Payment struct {
	ID          int64
	UserID      int64
	DebtID      int64
	Year        int
	Month       int
	IsPayed     bool
	PaymentInfo string
	Value       decimal.NullDecimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Status derives the display status from the owning debt's due day.
func (p *Payment) Status(debt *Debt, now time.Time) Status {
	return DeriveStatus(p.IsPayed, debt.ExpirationDay, now.Day())
}

// PaymentInput holds the fields needed to create a payment.
type PaymentInput struct {
	UserID      int64
	DebtID      int64
	Year        int
	Month       int
	IsPayed     bool
	PaymentInfo string
	Value       decimal.NullDecimal
}

// PaymentPatch lists the fields to change on a payment.
type PaymentPatch struct {
	IsPayed     *bool
	PaymentInfo *string
}

// Apply writes the patch onto p.
func (pp PaymentPatch) Apply(p *Payment) {
	if pp.IsPayed != nil {
		p.IsPayed = *pp.IsPayed
	}
	if pp.PaymentInfo != nil {
		p.PaymentInfo = *pp.PaymentInfo
	}
}
