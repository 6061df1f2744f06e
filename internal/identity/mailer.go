package identity

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// SMTPMailer sends password-reset mail over plain-auth SMTP.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	sender   string
}

func NewSMTPMailer(host, port, username, password, sender string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		sender:   sender,
	}
}

func (m *SMTPMailer) SendPasswordReset(to, token string) error {
	e := email.NewEmail()
	e.From = m.sender
	e.To = []string{to}
	e.Subject = "Reset your Credit Comeback password"
	e.Text = []byte(fmt.Sprintf(
		"We received a request to reset the password for %s.\n\n"+
			"Use this code within the next hour to choose a new password:\n\n"+
			"%s\n\n"+
			"If you did not request a reset, you can ignore this message.\n",
		to, token,
	))

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := e.Send(addr, auth); err != nil {
		slog.Warn("Failed to send password-reset mail", "to", to, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	slog.Info("Password-reset mail sent", "to", to)
	return nil
}
