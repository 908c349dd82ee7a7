package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAmountMarshal(t *testing.T) {
	b, err := json.Marshal(Amount{})
	require.NoError(t, err)
	require.JSONEq(t, `"NINFO"`, string(b))

	b, err = json.Marshal(Amount{decimal.NewNullDecimal(decimal.RequireFromString("1250.50"))})
	require.NoError(t, err)
	require.Equal(t, "1250.5", string(b))
}

func TestAmountUnmarshal(t *testing.T) {
	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`"NINFO"`), &a))
	require.False(t, a.Valid)

	require.NoError(t, json.Unmarshal([]byte(`"10.10"`), &a))
	require.True(t, a.Valid)
	require.True(t, a.Decimal.Equal(decimal.RequireFromString("10.1")))

	require.NoError(t, json.Unmarshal([]byte(`null`), &a))
	require.False(t, a.Valid)

	require.Error(t, json.Unmarshal([]byte(`"abc"`), &a))
}

func TestNewPaymentView(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	debt := &Debt{
		ID:            7,
		Description:   "internet",
		ExpirationDay: 16,
		Value:         decimal.NewNullDecimal(decimal.RequireFromString("99.90")),
	}
	p := &Payment{ID: 3, DebtID: 7, Year: 2024, Month: 3}

	v := NewPaymentView(p, debt, now)

	require.Equal(t, "2024-3-16", v.Date)
	require.Equal(t, StatusTomorrow, v.Status)
	require.True(t, v.Value.Valid)
	require.True(t, v.Debt.IsRecurrent)
	require.Equal(t, int64(7), v.Debt.ID)

	b, err := json.Marshal(v)
	require.NoError(t, err)
	require.Contains(t, string(b), `"expiration_day":16`)
	require.Contains(t, string(b), `"quantity":null`)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	debts := []Debt{
		{ID: 1, ExpirationDay: 10},
		{ID: 2, ExpirationDay: 15},
		{ID: 3, ExpirationDay: 16},
		{ID: 4, ExpirationDay: 25},
		{ID: 5, ExpirationDay: 1, IsPayed: true},
	}

	s := Summarize(debts, now)

	require.Len(t, s.All, 5)
	require.Len(t, s.Expired, 1)
	require.Len(t, s.Today, 1)
	require.Len(t, s.Tomorrow, 1)
	require.Len(t, s.Opened, 1)
	require.Len(t, s.Payed, 1)
	require.True(t, s.HasExpired())
	require.True(t, s.HasExpiring())

	empty := Summarize(nil, now)
	require.NotNil(t, empty.Expired)
	require.False(t, empty.HasExpiring())
}
