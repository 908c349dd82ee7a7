package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	const today = 15
	cases := []struct {
		name          string
		isPayed       bool
		expirationDay int
		want          Status
	}{
		{"payed before due", true, 20, StatusPayed},
		{"payed after due", true, 10, StatusPayed},
		{"expired", false, 10, StatusExpired},
		{"due today", false, 15, StatusToday},
		{"due tomorrow", false, 16, StatusTomorrow},
		{"opened", false, 20, StatusOpened},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DeriveStatus(tc.isPayed, tc.expirationDay, today))
		})
	}
}

func TestDeriveStatusIsTotal(t *testing.T) {
	valid := map[Status]bool{
		StatusPayed: true, StatusExpired: true, StatusToday: true,
		StatusTomorrow: true, StatusOpened: true,
	}
	for day := 1; day <= 31; day++ {
		for exp := 1; exp <= 31; exp++ {
			for _, payed := range []bool{true, false} {
				require.True(t, valid[DeriveStatus(payed, exp, day)])
			}
		}
	}
}

func TestDeriveStatusEndOfMonth(t *testing.T) {
	// Month length is ignored; only the day of month is compared.
	require.Equal(t, StatusTomorrow, DeriveStatus(false, 31, 30))
	require.Equal(t, StatusOpened, DeriveStatus(false, 30, 28))
}
