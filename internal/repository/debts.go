package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/watshodapay/watshodapay-go/internal/model"
)

var debtSchema = schema[model.Debt, model.DebtInput, model.DebtPatch]{
	table: "debts",
	columns: []string{
		"id", "user_id", "description", "expiration_day", "value", "quantity",
		"is_payed", "payment_info", "created_at", "updated_at",
	},
	filters: map[string]string{
		"id":             "id",
		"user_id":        "user_id",
		"expiration_day": "expiration_day",
		"is_payed":       "is_payed",
	},
	orderBy: "expiration_day, id",
	scan: func(r rowScanner) (model.Debt, error) {
		var d model.Debt
		err := r.Scan(
			&d.ID, &d.UserID, &d.Description, &d.ExpirationDay, &d.Value, &d.Quantity,
			&d.IsPayed, &d.PaymentInfo, &d.CreatedAt, &d.UpdatedAt,
		)
		return d, err
	},
	insert: func(in model.DebtInput) []assignment {
		var quantity any
		if in.Quantity != nil {
			quantity = *in.Quantity
		}
		return []assignment{
			{"user_id", in.UserID},
			{"description", in.Description},
			{"expiration_day", in.ExpirationDay},
			{"value", in.Value},
			{"quantity", quantity},
		}
	},
	update: func(p model.DebtPatch) []assignment {
		var set []assignment
		if p.Description != nil {
			set = append(set, assignment{"description", *p.Description})
		}
		if p.ExpirationDay != nil {
			set = append(set, assignment{"expiration_day", *p.ExpirationDay})
		}
		switch {
		case p.Value != nil:
			set = append(set, assignment{"value", *p.Value})
		case p.ClearValue:
			set = append(set, assignment{"value", nil})
		}
		switch {
		case p.Quantity != nil:
			set = append(set, assignment{"quantity", *p.Quantity})
		case p.ClearQuantity:
			set = append(set, assignment{"quantity", nil})
		}
		if p.IsPayed != nil {
			set = append(set, assignment{"is_payed", *p.IsPayed})
		}
		if p.PaymentInfo != nil {
			set = append(set, assignment{"payment_info", *p.PaymentInfo})
		}
		return set
	},
	idOf: func(d *model.Debt) int64 { return d.ID },
}

// DebtRepository is the SQL gateway for debts.
type DebtRepository struct {
	*SQLGateway[model.Debt, model.DebtInput, model.DebtPatch]
}

// NewDebtRepository creates a new DebtRepository.
func NewDebtRepository(db *sql.DB, d Dialect) *DebtRepository {
	return &DebtRepository{newSQLGateway(db, d, debtSchema)}
}

// ClearAllPayed resets the paid flag of every debt in one statement and
// returns the number of rows changed.
func (r *DebtRepository) ClearAllPayed(ctx context.Context) (int64, error) {
	q := r.dialect.Rebind(`UPDATE debts SET is_payed = ?, updated_at = CURRENT_TIMESTAMP WHERE is_payed = ?`)
	result, err := r.db.ExecContext(ctx, q, false, true)
	if err != nil {
		return 0, fmt.Errorf("debts: clear payed: %w", classify(err))
	}
	return result.RowsAffected()
}
