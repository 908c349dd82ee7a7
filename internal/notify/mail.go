package notify

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"
	"github.com/watshodapay/watshodapay-go/internal/logger"
)

// MailConfig configures the SMTP relay.
type MailConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// MailNotifier sends reminders by SMTP.
type MailNotifier struct {
	from string
	send func(*mail.Message) error
}

// NewMailNotifier creates a MailNotifier for the relay in cfg.
func NewMailNotifier(cfg MailConfig) *MailNotifier {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return &MailNotifier{from: cfg.From, send: func(m *mail.Message) error { return d.DialAndSend(m) }}
}

func (n *MailNotifier) message(r Reminder) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetAddressHeader("To", r.User.Email, r.User.Name)
	m.SetHeader("Subject", r.Subject())
	m.SetBody("text/plain", r.Text())
	return m
}

func (n *MailNotifier) NotifyExpiring(ctx context.Context, r Reminder) error {
	if err := n.send(n.message(r)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	logger.From(ctx).Debug("reminder sent", logger.Component("notify"), logger.UserID(r.User.ID))
	return nil
}
