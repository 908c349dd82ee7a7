package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/watshodapay/watshodapay-go/internal/model"
)

func debtPatchForTest(desc *string, quantity *int) model.DebtPatch {
	return model.DebtPatch{Description: desc, ClearValue: true, Quantity: quantity}
}

func TestMemoryUserUniqueEmail(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserRepository()

	u, err := users.Create(ctx, model.UserInput{Email: "ana@example.com", PasswordHash: "h", Name: "Ana"})
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)

	_, err = users.Create(ctx, model.UserInput{Email: "ANA@example.com", PasswordHash: "h", Name: "Other"})
	require.ErrorIs(t, err, ErrAlreadyExists)

	other, err := users.Create(ctx, model.UserInput{Email: "bob@example.com", PasswordHash: "h", Name: "Bob"})
	require.NoError(t, err)

	taken := "ana@example.com"
	_, err = users.Update(ctx, other, model.UserPatch{Email: &taken})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestMemoryGetAndGetWhere(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserRepository()

	_, err := users.Get(ctx, 42)
	require.ErrorIs(t, err, ErrNotFound)

	u, err := users.GetWhere(ctx, Filter{"email": "nobody@example.com"})
	require.NoError(t, err)
	require.Nil(t, u)

	_, err = users.Create(ctx, model.UserInput{Email: "ana@example.com", Name: "Ana"})
	require.NoError(t, err)

	u, err = users.GetWhere(ctx, Filter{"email": "ana@example.com"})
	require.NoError(t, err)
	require.Equal(t, "Ana", u.Name)

	_, err = users.ListWhere(ctx, Filter{"nickname": "x"})
	require.ErrorIs(t, err, ErrInvalidFilter)
}

func TestMemoryPaymentUniquePeriod(t *testing.T) {
	ctx := context.Background()
	payments := NewMemoryPaymentRepository()

	in := model.PaymentInput{UserID: 1, DebtID: 5, Year: 2024, Month: 3}
	_, err := payments.Create(ctx, in)
	require.NoError(t, err)

	_, err = payments.Create(ctx, in)
	require.ErrorIs(t, err, ErrAlreadyExists)

	in.Month = 4
	_, err = payments.Create(ctx, in)
	require.NoError(t, err)

	march, err := payments.ListWhere(ctx, Filter{"user_id": int64(1), "year": 2024, "month": 3})
	require.NoError(t, err)
	require.Len(t, march, 1)

	all, err := payments.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestMemoryDebtUpdateAndClearPayed(t *testing.T) {
	ctx := context.Background()
	debts := NewMemoryDebtRepository()

	quantity := 2
	d, err := debts.Create(ctx, model.DebtInput{
		UserID:        1,
		Description:   "car",
		ExpirationDay: 5,
		Value:         decimal.NewNullDecimal(decimal.RequireFromString("800.00")),
		Quantity:      &quantity,
	})
	require.NoError(t, err)
	quantity = 9
	require.Equal(t, 2, *d.Quantity)

	payed := true
	d, err = debts.Update(ctx, d, model.DebtPatch{IsPayed: &payed})
	require.NoError(t, err)
	require.True(t, d.IsPayed)

	_, err = debts.Create(ctx, model.DebtInput{UserID: 2, Description: "rent", ExpirationDay: 10})
	require.NoError(t, err)

	n, err := debts.ClearAllPayed(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	d, err = debts.Get(ctx, d.ID)
	require.NoError(t, err)
	require.False(t, d.IsPayed)

	_, err = debts.Update(ctx, &model.Debt{ID: 99}, model.DebtPatch{IsPayed: &payed})
	require.ErrorIs(t, err, ErrNotFound)
}
