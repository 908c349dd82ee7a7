package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"required,notblank,max=120"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries an issued token and the user it identifies.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse represents user data safe for API responses.
type UserResponse struct {
	ID               int64  `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	HasExpiredDebts  bool   `json:"has_expired_debts"`
	HasExpiringDebts bool   `json:"has_expiring_debts"`
}

// DebtRequest represents a debt creation request. A missing quantity makes
// the debt recurrent.
type DebtRequest struct {
	Description   string           `json:"description" validate:"required,notblank,max=255"`
	ExpirationDay int              `json:"expiration_day" validate:"required,min=1,max=31"`
	Value         *decimal.Decimal `json:"value"`
	Quantity      *int             `json:"quantity" validate:"omitempty,min=0"`
}

// Input converts the request into a DebtInput owned by userID.
func (r DebtRequest) Input(userID int64) DebtInput {
	in := DebtInput{
		UserID:        userID,
		Description:   r.Description,
		ExpirationDay: r.ExpirationDay,
		Quantity:      r.Quantity,
	}
	if r.Value != nil {
		in.Value = decimal.NewNullDecimal(*r.Value)
	}
	return in
}

// DebtUpdateRequest represents a partial debt update.
type DebtUpdateRequest struct {
	Description   *string          `json:"description" validate:"omitempty,notblank,max=255"`
	ExpirationDay *int             `json:"expiration_day" validate:"omitempty,min=1,max=31"`
	Value         *decimal.Decimal `json:"value"`
	ClearValue    bool             `json:"clear_value"`
	Quantity      *int             `json:"quantity" validate:"omitempty,min=0"`
	Recurrent     bool             `json:"recurrent"`
	IsPayed       *bool            `json:"is_payed"`
	PaymentInfo   *string          `json:"payment_info" validate:"omitempty,max=255"`
}

// Patch converts the request into a DebtPatch.
func (r DebtUpdateRequest) Patch() DebtPatch {
	return DebtPatch{
		Description:   r.Description,
		ExpirationDay: r.ExpirationDay,
		Value:         r.Value,
		ClearValue:    r.ClearValue,
		Quantity:      r.Quantity,
		ClearQuantity: r.Recurrent,
		IsPayed:       r.IsPayed,
		PaymentInfo:   r.PaymentInfo,
	}
}

// PaymentRequest asks for either the month batch or, with Single set, one
// ad-hoc payment against DebtID or against a debt created from Debt.
// Zero Year and Month default to the current period.
type PaymentRequest struct {
	Single      bool             `json:"single"`
	Year        int              `json:"year" validate:"omitempty,min=1970,max=9999"`
	Month       int              `json:"month" validate:"omitempty,min=1,max=12"`
	DebtID      int64            `json:"debt_id" validate:"omitempty,min=1"`
	Debt        *DebtRequest     `json:"debt" validate:"omitempty"`
	Value       *decimal.Decimal `json:"value"`
	PaymentInfo string           `json:"payment_info" validate:"max=255"`
	IsPayed     bool             `json:"is_payed"`
}

// PaymentUpdateRequest represents a partial payment update.
type PaymentUpdateRequest struct {
	IsPayed     *bool   `json:"is_payed"`
	PaymentInfo *string `json:"payment_info" validate:"omitempty,max=255"`
}

// Patch converts the request into a PaymentPatch.
func (r PaymentUpdateRequest) Patch() PaymentPatch {
	return PaymentPatch{IsPayed: r.IsPayed, PaymentInfo: r.PaymentInfo}
}

// GenerateResponse reports the outcome of a month batch.
type GenerateResponse struct {
	Year     int           `json:"year"`
	Month    int           `json:"month"`
	Payments []PaymentView `json:"payments"`
}

// JobResponse reports the outcome of a maintenance job.
type JobResponse struct {
	Job      string `json:"job"`
	Affected int64  `json:"affected"`
}
