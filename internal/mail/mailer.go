package mail

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// Mailer sends plain-text mail. Callers treat delivery as best-effort.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends through a configured SMTP relay with PLAIN auth.
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPMailer(host, port, user, pass, from string) *SMTPMailer {
	if from == "" {
		from = user
	}
	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		m.from, to, subject, body)

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// NoOpMailer logs the message instead of sending it. Used when SMTP is not
// configured, so development setups still surface the 2FA code.
type NoOpMailer struct {
	logger *zap.Logger
}

func NewNoOpMailer(logger *zap.Logger) *NoOpMailer {
	return &NoOpMailer{logger: logger}
}

func (m *NoOpMailer) Send(to, subject, body string) error {
	m.logger.Info("mail transport not configured, message dropped",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}
