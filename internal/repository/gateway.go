package repository

import (
	"context"

	"github.com/watshodapay/watshodapay-go/internal/model"
)

// Filter selects records by equality on named fields. Keys are field names
// such as "user_id"; every pair must match.
type Filter map[string]any

// Gateway is the uniform persistence contract for a record type T created
// from In and changed through Patch.
//
// Get fails with ErrNotFound. GetWhere returns (nil, nil) when nothing
// matches. Create and Update fail with ErrAlreadyExists on a uniqueness
// violation and with ErrPersistence on any other constraint violation.
// Every write is a single atomic statement.
type Gateway[T any, In any, Patch any] interface {
	ListAll(ctx context.Context) ([]T, error)
	ListWhere(ctx context.Context, f Filter) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	GetWhere(ctx context.Context, f Filter) (*T, error)
	Create(ctx context.Context, in In) (*T, error)
	Update(ctx context.Context, rec *T, patch Patch) (*T, error)
}

type UserStore = Gateway[model.User, model.UserInput, model.UserPatch]

type PaymentStore = Gateway[model.Payment, model.PaymentInput, model.PaymentPatch]

// DebtStore adds the monthly bulk reset of the paid flag.
type DebtStore interface {
	Gateway[model.Debt, model.DebtInput, model.DebtPatch]
	ClearAllPayed(ctx context.Context) (int64, error)
}
