package notification

import (
	"context"
	"fmt"
	"net/smtp"
)

// SMTPConfig holds the mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Sender   string
	Password string
}

// AddressLookup resolves an owner id to an email address. Identity lives
// with an external collaborator, so the mapping is injected.
type AddressLookup func(r Receipt) (string, bool)

// Mailer delivers receipts over SMTP with STARTTLS.
type Mailer struct {
	cfg    SMTPConfig
	lookup AddressLookup
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates an SMTP notifier.
func NewMailer(cfg SMTPConfig, lookup AddressLookup) *Mailer {
	return &Mailer{cfg: cfg, lookup: lookup, send: smtp.SendMail}
}

// Send implements Notifier. Owners without a resolvable address are
// silently skipped; that is not a delivery failure.
func (m *Mailer) Send(_ context.Context, r Receipt) error {
	if m.lookup == nil {
		return nil
	}
	to, ok := m.lookup(r)
	if !ok {
		return nil
	}
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.Sender, to, r.Subject, r.Body,
	)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Sender, m.cfg.Password, m.cfg.Host)
	if err := m.send(addr, auth, m.cfg.Sender, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
