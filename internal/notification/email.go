package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPEmailer delivers plain-text mail over authenticated SMTP.
type SMTPEmailer struct {
	host string
	port int
	auth smtp.Auth
	from string
}

func NewSMTPEmailer(host string, port int, user, password, from string) *SMTPEmailer {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &SMTPEmailer{host: host, port: port, auth: auth, from: from}
}

func (e *SMTPEmailer) Email(ctx context.Context, address, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + e.from,
		"To: " + address,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, e.auth, e.from, []string{address}, []byte(msg))
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
