package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks,omitempty"`
}

// SlackWebhook posts messages to a Slack incoming webhook.
type SlackWebhook struct {
	url    string
	client *http.Client
}

// NewSlackWebhook creates a webhook sink. client may be nil.
func NewSlackWebhook(url string, client *http.Client) *SlackWebhook {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SlackWebhook{url: url, client: client}
}

func (s *SlackWebhook) Name() string {
	return "slack"
}

func buildSlackPayload(msg Message) slackPayload {
	payload := slackPayload{Text: msg.Text}
	if len(msg.Fields) == 0 {
		return payload
	}

	fields := make([]slackText, 0, len(msg.Fields))
	for _, f := range msg.Fields {
		fields = append(fields, slackText{Type: "mrkdwn", Text: fmt.Sprintf("*%s:* %s", f.Key, f.Value)})
	}
	payload.Blocks = []slackBlock{
		{Type: "section", Text: &slackText{Type: "mrkdwn", Text: msg.Text}},
		{Type: "section", Fields: fields},
	}
	return payload
}

func (s *SlackWebhook) Send(ctx context.Context, msg Message) error {
	if s.url == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(buildSlackPayload(msg))
	if err != nil {
		return fmt.Errorf("failed to encode slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send slack notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("slack webhook error: status %d", resp.StatusCode)
	}
	return nil
}
