package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"invite-redirector/internal/config"
)

func TestFromConfig(t *testing.T) {
	t.Run("No credentials", func(t *testing.T) {
		n := FromConfig(config.NotifyConfig{})
		assert.Empty(t, n.sinks)
	})

	t.Run("Smtp only", func(t *testing.T) {
		n := FromConfig(config.NotifyConfig{
			SMTPHost:  "smtp.example.com",
			SMTPPort:  587,
			EmailFrom: "bot@example.com",
			EmailTo:   "ops@example.com",
		})
		if assert.Len(t, n.sinks, 1) {
			assert.Equal(t, "smtp", n.sinks[0].Name())
		}
	})

	t.Run("Slack and email", func(t *testing.T) {
		n := FromConfig(config.NotifyConfig{
			SlackWebhookURL: "https://hooks.slack.com/services/x",
			SendGridAPIKey:  "SG.key",
			EmailFrom:       "bot@example.com",
			EmailTo:         "ops@example.com",
		})
		if assert.Len(t, n.sinks, 2) {
			assert.Equal(t, "slack", n.sinks[0].Name())
			assert.Equal(t, "sendgrid", n.sinks[1].Name())
		}
	})
}
