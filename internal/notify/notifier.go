package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"invite-redirector/internal/logger"
)

// ErrNotConfigured is returned by sinks that lack credentials.
var ErrNotConfigured = errors.New("notification sink not configured")

// Field is one key/value detail attached to a message.
type Field struct {
	Key   string
	Value string
}

// Message is a canned event ready for delivery.
type Message struct {
	Text   string
	Fields []Field
}

// Plain renders the message as plain text, one field per line.
func (m Message) Plain() string {
	var b strings.Builder
	b.WriteString(m.Text)
	for _, f := range m.Fields {
		fmt.Fprintf(&b, "\n%s: %s", f.Key, f.Value)
	}
	return b.String()
}

// Sink delivers a message to one destination.
type Sink interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Notifier fans messages out to its sinks. It never returns an error;
// delivery is best effort and callers must not depend on the result.
type Notifier struct {
	sinks []Sink
}

// New creates a notifier over the configured sinks.
func New(sinks ...Sink) *Notifier {
	return &Notifier{sinks: sinks}
}

// Send delivers text and fields to every sink. It reports whether at least
// one sink accepted the message.
func (n *Notifier) Send(ctx context.Context, text string, fields ...Field) bool {
	if len(n.sinks) == 0 {
		logger.Info("No notification sink configured, skipping notification", "message", text)
		return false
	}

	msg := Message{Text: text, Fields: fields}
	delivered := false
	for _, sink := range n.sinks {
		logger.ExternalServiceCall(sink.Name(), "send", "message", text)
		err := sink.Send(ctx, msg)
		logger.ExternalServiceResult(sink.Name(), "send", err)
		if err == nil {
			delivered = true
		}
	}
	return delivered
}

// LinkExpired warns that the link expires in daysLeft days, or has expired at 0.
func (n *Notifier) LinkExpired(ctx context.Context, url string, daysLeft int) bool {
	return n.Send(ctx, "🚨 *Slack Invite Link Expiring Soon*",
		Field{Key: "Link", Value: url},
		Field{Key: "Days Left", Value: fmt.Sprintf("%d", daysLeft)},
		Field{Key: "Action", Value: "Please update the invite link in the Admin Panel"},
	)
}

// LinkInvalid reports that the link no longer resolves.
func (n *Notifier) LinkInvalid(ctx context.Context, url string) bool {
	return n.Send(ctx, "❌ *Slack Invite Link is Invalid*",
		Field{Key: "Link", Value: url},
		Field{Key: "Status", Value: "Link is no longer accessible"},
		Field{Key: "Action", Value: "Please update the invite link immediately in the Admin Panel"},
	)
}

// LinkUpdated reports that an admin replaced the link.
func (n *Notifier) LinkUpdated(ctx context.Context, oldURL, newURL string) bool {
	return n.Send(ctx, "✅ *Slack Invite Link Updated*",
		Field{Key: "Old Link", Value: preview(oldURL)},
		Field{Key: "New Link", Value: preview(newURL)},
		Field{Key: "Updated By", Value: "Admin Panel"},
	)
}

func preview(s string) string {
	r := []rune(s)
	if len(r) > 50 {
		r = r[:50]
	}
	return string(r) + "..."
}
