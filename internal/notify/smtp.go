package notify

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTP delivers messages through a plain SMTP relay.
type SMTP struct {
	dialer mailDialer
	from   string
	to     string
}

// NewSMTP creates an SMTP sink.
func NewSMTP(host string, port int, username, password, from, to string) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		to:     to,
	}
}

func (s *SMTP) Name() string {
	return "smtp"
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", strings.TrimSpace(strings.ReplaceAll(msg.Text, "*", "")))
	m.SetBody("text/plain", strings.ReplaceAll(msg.Plain(), "*", ""))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	return nil
}
