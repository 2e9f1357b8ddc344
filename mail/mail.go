// Package mail is the boundary to the outbound mail transport.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"smartkop/apperr"
	"smartkop/config"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	Cfg config.SMTPConfig
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", m.Cfg.FromName, m.Cfg.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	var auth smtp.Auth
	if m.Cfg.User != "" {
		auth = smtp.PlainAuth("", m.Cfg.User, m.Cfg.Pass, m.Cfg.Host)
	}

	err := smtp.SendMail(m.Cfg.Addr(), auth, m.Cfg.FromEmail, []string{msg.To}, []byte(b.String()))
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "Failed to send email", err)
	}
	return nil
}
