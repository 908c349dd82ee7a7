package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	plain := errors.New("connection reset")

	cases := []struct {
		name string
		err  error
		want error
	}{
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.c' for key 'uq_users_email'"}, ErrAlreadyExists},
		{"mysql foreign key", &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}, ErrPersistence},
		{"mysql check", &mysql.MySQLError{Number: 3819, Message: "Check constraint is violated"}, ErrPersistence},
		{"pg unique", &pgconn.PgError{Code: "23505"}, ErrAlreadyExists},
		{"pg not null", &pgconn.PgError{Code: "23502"}, ErrPersistence},
		{"pg too long", &pgconn.PgError{Code: "22001"}, ErrPersistence},
		{"wrapped duplicate text", fmt.Errorf("exec: %w", errors.New("Error 1062: Duplicate entry 'x'")), ErrAlreadyExists},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classify(tc.err)
			require.ErrorIs(t, got, tc.want)
			require.ErrorIs(t, got, tc.err)
		})
	}

	require.Same(t, plain, classify(plain))
	require.NoError(t, classify(nil))

	deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found"}
	require.Equal(t, error(deadlock), classify(deadlock))
}

func TestIsHelpers(t *testing.T) {
	require.True(t, IsNotFound(fmt.Errorf("users 3: %w", ErrNotFound)))
	require.False(t, IsNotFound(ErrAlreadyExists))
	require.True(t, IsAlreadyExists(fmt.Errorf("x: %w", ErrAlreadyExists)))
}
