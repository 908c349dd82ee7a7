package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/watshodapay/watshodapay-go/internal/model"
)

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{"": MySQL, "mysql": MySQL, "postgres": Postgres, "PGX": Postgres} {
		got, err := ParseDialect(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseDialect("sqlite")
	require.Error(t, err)

	require.Equal(t, "pgx", Postgres.DriverName())
	require.Equal(t, "mysql", MySQL.DriverName())
}

func TestRebind(t *testing.T) {
	q := "SELECT id FROM payments WHERE debt_id = ? AND year = ? AND month = ?"
	require.Equal(t, q, MySQL.Rebind(q))
	require.Equal(t, "SELECT id FROM payments WHERE debt_id = $1 AND year = $2 AND month = $3", Postgres.Rebind(q))
}

func TestWhereIsDeterministic(t *testing.T) {
	g := NewPaymentRepository(nil, MySQL)

	clause, args, err := g.where(Filter{"year": 2024, "user_id": int64(1), "month": 3})
	require.NoError(t, err)
	require.Equal(t, " WHERE month = ? AND user_id = ? AND year = ?", clause)
	require.Equal(t, []any{3, int64(1), 2024}, args)

	clause, args, err = g.where(nil)
	require.NoError(t, err)
	require.Empty(t, clause)
	require.Empty(t, args)
}

func TestWhereRejectsUnknownField(t *testing.T) {
	g := NewUserRepository(nil, Postgres)
	_, _, err := g.where(Filter{"password_hash": "x"})
	require.ErrorIs(t, err, ErrInvalidFilter)
}

func TestDebtUpdateAssignments(t *testing.T) {
	q := 0
	desc := "gym"
	set := debtSchema.update(debtPatchForTest(&desc, &q))
	cols := make([]string, len(set))
	for i, a := range set {
		cols[i] = a.column
	}
	require.Equal(t, []string{"description", "value", "quantity"}, cols)
	require.Nil(t, set[1].value)
	require.Equal(t, 0, set[2].value)
}

func TestInsertQuery(t *testing.T) {
	in := model.PaymentInput{
		UserID:      1,
		DebtID:      2,
		Year:        2024,
		Month:       3,
		PaymentInfo: "pix",
		Value:       decimal.NewNullDecimal(decimal.RequireFromString("99.90")),
	}
	wantArgs := []any{int64(1), int64(2), 2024, 3, false, "pix", in.Value}

	cases := []struct {
		dialect Dialect
		want    string
	}{
		{MySQL, "INSERT INTO payments (user_id, debt_id, year, month, is_payed, payment_info, value) VALUES (?, ?, ?, ?, ?, ?, ?)"},
		{Postgres, "INSERT INTO payments (user_id, debt_id, year, month, is_payed, payment_info, value) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id"},
	}
	for _, c := range cases {
		t.Run(string(c.dialect), func(t *testing.T) {
			q, args := NewPaymentRepository(nil, c.dialect).insertQuery(in)
			require.Equal(t, c.want, q)
			require.Equal(t, wantArgs, args)
		})
	}
}

func TestUpdateQuery(t *testing.T) {
	name, hash := "Ana", "h"
	patch := model.UserPatch{Name: &name, PasswordHash: &hash}

	cases := []struct {
		dialect Dialect
		want    string
	}{
		{MySQL, "UPDATE users SET name = ?, password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"},
		{Postgres, "UPDATE users SET name = $1, password_hash = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3"},
	}
	for _, c := range cases {
		t.Run(string(c.dialect), func(t *testing.T) {
			g := NewUserRepository(nil, c.dialect)
			q, args, ok := g.updateQuery(7, patch)
			require.True(t, ok)
			require.Equal(t, c.want, q)
			require.Equal(t, []any{"Ana", "h", int64(7)}, args)

			_, _, ok = g.updateQuery(7, model.UserPatch{})
			require.False(t, ok)
		})
	}
}

func TestGetQuery(t *testing.T) {
	require.Equal(t,
		"SELECT id, email, password_hash, name, created_at, updated_at FROM users WHERE id = ?",
		NewUserRepository(nil, MySQL).getQuery())
	require.Equal(t,
		"SELECT id, email, password_hash, name, created_at, updated_at FROM users WHERE id = $1",
		NewUserRepository(nil, Postgres).getQuery())
}
