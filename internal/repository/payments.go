package repository

import (
	"database/sql"

	"github.com/watshodapay/watshodapay-go/internal/model"
)

// Payments are unique per (debt_id, year, month); see the migrations.
var paymentSchema = schema[model.Payment, model.PaymentInput, model.PaymentPatch]{
	table: "payments",
	columns: []string{
		"id", "user_id", "debt_id", "year", "month", "is_payed", "payment_info",
		"value", "created_at", "updated_at",
	},
	filters: map[string]string{
		"id":       "id",
		"user_id":  "user_id",
		"debt_id":  "debt_id",
		"year":     "year",
		"month":    "month",
		"is_payed": "is_payed",
	},
	orderBy: "year, month, id",
	scan: func(r rowScanner) (model.Payment, error) {
		var p model.Payment
		err := r.Scan(
			&p.ID, &p.UserID, &p.DebtID, &p.Year, &p.Month, &p.IsPayed, &p.PaymentInfo,
			&p.Value, &p.CreatedAt, &p.UpdatedAt,
		)
		return p, err
	},
	insert: func(in model.PaymentInput) []assignment {
		return []assignment{
			{"user_id", in.UserID},
			{"debt_id", in.DebtID},
			{"year", in.Year},
			{"month", in.Month},
			{"is_payed", in.IsPayed},
			{"payment_info", in.PaymentInfo},
			{"value", in.Value},
		}
	},
	update: func(p model.PaymentPatch) []assignment {
		var set []assignment
		if p.IsPayed != nil {
			set = append(set, assignment{"is_payed", *p.IsPayed})
		}
		if p.PaymentInfo != nil {
			set = append(set, assignment{"payment_info", *p.PaymentInfo})
		}
		return set
	},
	idOf: func(p *model.Payment) int64 { return p.ID },
}

// NewPaymentRepository returns the SQL gateway for payments.
func NewPaymentRepository(db *sql.DB, d Dialect) *SQLGateway[model.Payment, model.PaymentInput, model.PaymentPatch] {
	return newSQLGateway(db, d, paymentSchema)
}
