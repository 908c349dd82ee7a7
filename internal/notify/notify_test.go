package notify

import (
	"context"
	"errors"
	"testing"

	mail "github.com/go-mail/mail"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/watshodapay/watshodapay-go/internal/model"
)

func testReminder() Reminder {
	return Reminder{
		User: model.User{ID: 1, Email: "ana@example.com", Name: "Ana"},
		Debts: []model.DebtView{
			{Description: "rent", ExpirationDay: 15, Status: model.StatusToday,
				Value: model.Amount{NullDecimal: decimal.NewNullDecimal(decimal.RequireFromString("1200.00"))}},
			{Description: "gym", ExpirationDay: 16, Status: model.StatusTomorrow},
		},
	}
}

func TestReminderRendering(t *testing.T) {
	r := testReminder()
	require.Equal(t, "2 debts are about to expire", r.Subject())

	text := r.Text()
	require.Contains(t, text, "Hi Ana")
	require.Contains(t, text, "- rent (day 15, today): 1200")
	require.Contains(t, text, "- gym (day 16, tomorrow): NINFO")

	r.Debts = r.Debts[:1]
	require.Equal(t, "1 debt is about to expire", r.Subject())
}

func TestMailNotifierBuildsMessage(t *testing.T) {
	var sent *mail.Message
	n := &MailNotifier{from: "no-reply@watshodapay.com.br", send: func(m *mail.Message) error {
		sent = m
		return nil
	}}

	require.NoError(t, n.NotifyExpiring(context.Background(), testReminder()))
	require.NotNil(t, sent)
	require.Equal(t, []string{"no-reply@watshodapay.com.br"}, sent.GetHeader("From"))
	require.Equal(t, []string{"2 debts are about to expire"}, sent.GetHeader("Subject"))
	require.Len(t, sent.GetHeader("To"), 1)
	require.Contains(t, sent.GetHeader("To")[0], "ana@example.com")
}

func TestMailNotifierWrapsSendError(t *testing.T) {
	boom := errors.New("relay down")
	n := &MailNotifier{send: func(*mail.Message) error { return boom }}
	require.ErrorIs(t, n.NotifyExpiring(context.Background(), testReminder()), boom)
}

func TestNewMailNotifierDialsRelay(t *testing.T) {
	n := NewMailNotifier(MailConfig{Host: "127.0.0.1", Port: 1, From: "no-reply@watshodapay.com.br"})
	require.NotNil(t, n.send)
	require.ErrorContains(t, n.NotifyExpiring(context.Background(), testReminder()), "smtp send")
}

func TestLogNotifier(t *testing.T) {
	require.NoError(t, LogNotifier{}.NotifyExpiring(context.Background(), testReminder()))
}
