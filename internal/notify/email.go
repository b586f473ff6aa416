package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendgridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Email delivers messages to an operator mailbox through SendGrid.
type Email struct {
	client sendgridClient
	from   *mail.Email
	to     *mail.Email
}

// NewEmail creates a SendGrid sink.
func NewEmail(apiKey, from, to string) *Email {
	return &Email{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Invite Redirector", from),
		to:     mail.NewEmail("", to),
	}
}

func (e *Email) Name() string {
	return "sendgrid"
}

func (e *Email) Send(ctx context.Context, msg Message) error {
	// Slack markup stays readable in mail except for the bold markers.
	subject := strings.TrimSpace(strings.ReplaceAll(msg.Text, "*", ""))
	message := mail.NewSingleEmail(e.from, subject, e.to, strings.ReplaceAll(msg.Plain(), "*", ""), "")

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
