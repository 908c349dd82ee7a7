package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// NotTracked is emitted in place of a value when the amount is unknown.
const NotTracked = "NINFO"

// Amount is an optional decimal that renders as a JSON number or NotTracked.
type Amount struct {
	decimal.NullDecimal
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return json.Marshal(NotTracked)
	}
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		a.Valid = false
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil && s == NotTracked {
		a.Valid = false
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	a.NullDecimal = decimal.NewNullDecimal(d)
	return nil
}

// DebtView is the serialisable representation of a debt.
type DebtView struct {
	ID            int64  `json:"id"`
	Description   string `json:"description"`
	ExpirationDay int    `json:"expiration_day"`
	Value         Amount `json:"value"`
	Quantity      *int   `json:"quantity"`
	IsRecurrent   bool   `json:"is_recurrent"`
	IsPayed       bool   `json:"is_payed"`
	PaymentInfo   string `json:"payment_info"`
	Status        Status `json:"status"`
}

// NewDebtView renders d as seen on the given day.
func NewDebtView(d *Debt, now time.Time) DebtView {
	return DebtView{
		ID:            d.ID,
		Description:   d.Description,
		ExpirationDay: d.ExpirationDay,
		Value:         Amount{d.Value},
		Quantity:      d.Quantity,
		IsRecurrent:   d.IsRecurrent(),
		IsPayed:       d.IsPayed,
		PaymentInfo:   d.PaymentInfo,
		Status:        d.Status(now),
	}
}

// PaymentView is the serialisable representation of a payment and its debt.
type PaymentView struct {
	ID          int64    `json:"id"`
	Year        int      `json:"year"`
	Month       int      `json:"month"`
	Date        string   `json:"date"`
	IsPayed     bool     `json:"is_payed"`
	Status      Status   `json:"status"`
	PaymentInfo string   `json:"payment_info"`
	Value       Amount   `json:"value"`
	Debt        DebtView `json:"debt"`
}

// NewPaymentView renders p with its owning debt as seen on the given day.
// A payment without its own value shows the debt's value.
func NewPaymentView(p *Payment, debt *Debt, now time.Time) PaymentView {
	value := p.Value
	if !value.Valid {
		value = debt.Value
	}
	return PaymentView{
		ID:          p.ID,
		Year:        p.Year,
		Month:       p.Month,
		Date:        fmt.Sprintf("%d-%d-%d", p.Year, p.Month, debt.ExpirationDay),
		IsPayed:     p.IsPayed,
		Status:      p.Status(debt, now),
		PaymentInfo: p.PaymentInfo,
		Value:       Amount{value},
		Debt:        NewDebtView(debt, now),
	}
}

// DebtsSummary groups a user's debts by status. All holds every debt; each
// debt also appears in exactly one status bucket.
type DebtsSummary struct {
	All      []DebtView `json:"all"`
	Expired  []DebtView `json:"expired"`
	Opened   []DebtView `json:"opened"`
	Payed    []DebtView `json:"payed"`
	Today    []DebtView `json:"today"`
	Tomorrow []DebtView `json:"tomorrow"`
}

// Summarize builds the summary of debts as seen on the given day.
func Summarize(debts []Debt, now time.Time) DebtsSummary {
	s := DebtsSummary{
		All:      make([]DebtView, 0, len(debts)),
		Expired:  []DebtView{},
		Opened:   []DebtView{},
		Payed:    []DebtView{},
		Today:    []DebtView{},
		Tomorrow: []DebtView{},
	}
	for i := range debts {
		v := NewDebtView(&debts[i], now)
		s.All = append(s.All, v)
		switch v.Status {
		case StatusExpired:
			s.Expired = append(s.Expired, v)
		case StatusOpened:
			s.Opened = append(s.Opened, v)
		case StatusPayed:
			s.Payed = append(s.Payed, v)
		case StatusToday:
			s.Today = append(s.Today, v)
		case StatusTomorrow:
			s.Tomorrow = append(s.Tomorrow, v)
		}
	}
	return s
}

// HasExpired reports whether any debt is overdue.
func (s DebtsSummary) HasExpired() bool { return len(s.Expired) > 0 }

// HasExpiring reports whether any unpaid debt is due today or tomorrow.
func (s DebtsSummary) HasExpiring() bool { return len(s.Today) > 0 || len(s.Tomorrow) > 0 }
