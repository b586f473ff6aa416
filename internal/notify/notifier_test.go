package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	err      error
	messages []Message
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Send(ctx context.Context, msg Message) error {
	s.messages = append(s.messages, msg)
	return s.err
}

func TestNotifier_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("No sinks", func(t *testing.T) {
		assert.False(t, New().Send(ctx, "hello"))
	})

	t.Run("Any sink delivering is success", func(t *testing.T) {
		failing := &recordingSink{err: errors.New("boom")}
		working := &recordingSink{}

		assert.True(t, New(failing, working).Send(ctx, "hello"))
		assert.Len(t, failing.messages, 1)
		assert.Len(t, working.messages, 1)
	})

	t.Run("All sinks failing", func(t *testing.T) {
		failing := &recordingSink{err: errors.New("boom")}
		assert.False(t, New(failing).Send(ctx, "hello"))
	})
}

func TestNotifier_CannedEvents(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{}
	n := New(sink)

	n.LinkExpired(ctx, "https://join.slack.com/t/x", 3)
	n.LinkInvalid(ctx, "https://join.slack.com/t/x")
	n.LinkUpdated(ctx, "https://join.slack.com/t/old", strings.Repeat("a", 60))

	require.Len(t, sink.messages, 3)

	expired := sink.messages[0]
	assert.Equal(t, "🚨 *Slack Invite Link Expiring Soon*", expired.Text)
	assert.Equal(t, Field{Key: "Days Left", Value: "3"}, expired.Fields[1])

	invalid := sink.messages[1]
	assert.Equal(t, "❌ *Slack Invite Link is Invalid*", invalid.Text)
	assert.Equal(t, Field{Key: "Status", Value: "Link is no longer accessible"}, invalid.Fields[1])

	updated := sink.messages[2]
	assert.Equal(t, "✅ *Slack Invite Link Updated*", updated.Text)
	assert.Equal(t, "https://join.slack.com/t/old...", updated.Fields[0].Value)
	assert.Equal(t, strings.Repeat("a", 50)+"...", updated.Fields[1].Value)
	assert.Equal(t, "Admin Panel", updated.Fields[2].Value)
}

func TestMessage_Plain(t *testing.T) {
	msg := Message{Text: "title", Fields: []Field{{Key: "Link", Value: "u"}, {Key: "Days Left", Value: "2"}}}
	assert.Equal(t, "title\nLink: u\nDays Left: 2", msg.Plain())
}
