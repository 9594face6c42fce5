package service

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/mealbridge/api/internal/config"
)

// Mailer sends outbound email. Implementations must be safe for concurrent
// use; background jobs fan out sends across goroutines.
type Mailer interface {
	Send(to, subject, body string) error
}

// NewMailer returns an SMTP mailer when mail is enabled in config and a
// logging no-op otherwise, so development runs never need a mail server.
func NewMailer(cfg config.MailConfig, logger *slog.Logger) Mailer {
	if !cfg.Enabled {
		return &logMailer{logger: logger}
	}
	return &smtpMailer{cfg: cfg}
}

// smtpMailer sends via a plain SMTP relay with optional auth
type smtpMailer struct {
	cfg config.MailConfig
}

func (m *smtpMailer) Send(to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// logMailer logs instead of sending
type logMailer struct {
	logger *slog.Logger
}

func (m *logMailer) Send(to, subject, body string) error {
	m.logger.Info("mail suppressed (mail disabled)", "to", to, "subject", subject, "bytes", len(body))
	return nil
}
