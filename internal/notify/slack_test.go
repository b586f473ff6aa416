package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackWebhook_Send(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	sink := NewSlackWebhook(srv.URL, srv.Client())
	err := sink.Send(context.Background(), Message{
		Text:   "❌ *Slack Invite Link is Invalid*",
		Fields: []Field{{Key: "Link", Value: "https://join.slack.com/t/x"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "❌ *Slack Invite Link is Invalid*", got["text"])
	blocks := got["blocks"].([]any)
	require.Len(t, blocks, 2)
	fields := blocks[1].(map[string]any)["fields"].([]any)
	assert.Equal(t, "*Link:* https://join.slack.com/t/x", fields[0].(map[string]any)["text"])
}

func TestSlackWebhook_NoFieldsNoBlocks(t *testing.T) {
	payload := buildSlackPayload(Message{Text: "plain"})
	assert.Equal(t, "plain", payload.Text)
	assert.Nil(t, payload.Blocks)

	b, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"plain"}`, string(b))
}

func TestSlackWebhook_Failures(t *testing.T) {
	t.Run("Unconfigured", func(t *testing.T) {
		err := NewSlackWebhook("", nil).Send(context.Background(), Message{Text: "x"})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("Non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		err := NewSlackWebhook(srv.URL, srv.Client()).Send(context.Background(), Message{Text: "x"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "status 403")
	})

	t.Run("Unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		assert.Error(t, NewSlackWebhook(url, nil).Send(context.Background(), Message{Text: "x"}))
	})
}
