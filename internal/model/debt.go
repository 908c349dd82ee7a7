package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidState is returned when an operation's precondition does not hold.
	ErrInvalidState         = errors.New("invalid state")
	ErrInvalidExpirationDay = errors.New("expiration day must be between 1 and 31")
	ErrDescriptionRequired  = errors.New("description is required")
	ErrNegativeQuantity     = errors.New("quantity must not be negative")
)

// Debt is a monetary obligation owned by a user. A nil Quantity means the
// debt recurs indefinitely; otherwise it counts the remaining occurrences.
type Debt struct {
	ID            int64
	UserID        int64
	Description   string
	ExpirationDay int
	Value         decimal.NullDecimal
	Quantity      *int
	IsPayed       bool
	PaymentInfo   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsRecurrent reports whether the debt has no occurrence limit.
func (d *Debt) IsRecurrent() bool {
	return d.Quantity == nil
}

// IsActive reports whether a finite debt still has occurrences left.
func (d *Debt) IsActive() bool {
	return d.Quantity != nil && *d.Quantity > 0
}

// DecreaseQuantity consumes one occurrence. The caller persists the result.
func (d *Debt) DecreaseQuantity() error {
	if d.Quantity == nil {
		return fmt.Errorf("%w: debt %d is recurrent", ErrInvalidState, d.ID)
	}
	if *d.Quantity <= 0 {
		return fmt.Errorf("%w: debt %d has no occurrences left", ErrInvalidState, d.ID)
	}
	q := *d.Quantity - 1
	d.Quantity = &q
	return nil
}

// Status derives the display status of the debt for the given day.
func (d *Debt) Status(now time.Time) Status {
	return DeriveStatus(d.IsPayed, d.ExpirationDay, now.Day())
}

// DebtInput holds the fields needed to create a debt.
type DebtInput struct {
	UserID        int64
	Description   string
	ExpirationDay int
	Value         decimal.NullDecimal
	Quantity      *int
}

// Validate checks the input before it reaches storage. Any day in 1..31 is
// accepted regardless of the month's length.
func (in DebtInput) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return ErrDescriptionRequired
	}
	if in.ExpirationDay < 1 || in.ExpirationDay > 31 {
		return ErrInvalidExpirationDay
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// DebtPatch lists the fields to change on a debt. Nil pointers are left
// untouched; ClearValue and ClearQuantity set the column to NULL.
type DebtPatch struct {
	Description   *string
	ExpirationDay *int
	Value         *decimal.Decimal
	ClearValue    bool
	Quantity      *int
	ClearQuantity bool
	IsPayed       *bool
	PaymentInfo   *string
}

// Validate applies the DebtInput rules to the fields being changed.
func (p DebtPatch) Validate() error {
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return ErrDescriptionRequired
	}
	if p.ExpirationDay != nil && (*p.ExpirationDay < 1 || *p.ExpirationDay > 31) {
		return ErrInvalidExpirationDay
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// Apply writes the patch onto d.
func (p DebtPatch) Apply(d *Debt) {
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.ExpirationDay != nil {
		d.ExpirationDay = *p.ExpirationDay
	}
	switch {
	case p.Value != nil:
		d.Value = decimal.NewNullDecimal(*p.Value)
	case p.ClearValue:
		d.Value = decimal.NullDecimal{}
	}
	switch {
	case p.Quantity != nil:
		q := *p.Quantity
		d.Quantity = &q
	case p.ClearQuantity:
		d.Quantity = nil
	}
	if p.IsPayed != nil {
		d.IsPayed = *p.IsPayed
	}
	if p.PaymentInfo != nil {
		d.PaymentInfo = *p.PaymentInfo
	}
}
