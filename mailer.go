package tripshare

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// ConsoleMailer prints outgoing mail to the operator console. Development
// only; it never talks to a mail server.
type ConsoleMailer struct {
	Logger Logger
}

var _ Mailer = (*ConsoleMailer)(nil)

func (m ConsoleMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	logger := m.Logger
	if logger == nil {
		logger = defLogger{}
	}
	logger.Info("====== SENDING EMAIL NOTIFICATION =======")
	logger.Info("to: %s", to)
	logger.Info("subject: %s", subject)
	logger.Debug("body:\n%s", htmlBody)
	return nil
}

// SMTPMailer delivers HTML mail over a plain SMTP relay. Failures surface to
// the caller; nothing is retried.
type SMTPMailer struct {
	Addr     string // host:port
	From     string
	Username string
	Password string
	Logger   Logger
}

var _ Mailer = (*SMTPMailer)(nil)

func (m SMTPMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	var auth smtp.Auth
	if m.Username != "" {
		host := m.Addr
		if idx := strings.Index(host, ":"); idx != -1 {
			host = host[:idx]
		}
		auth = smtp.PlainAuth("", m.Username, m.Password, host)
	}

	if err := smtp.SendMail(m.Addr, auth, m.From, []string{to}, []byte(msg)); err != nil {
		if m.Logger != nil {
			m.Logger.Error("smtp send to %s failed: %v", to, err)
		}
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}

	return nil
}
