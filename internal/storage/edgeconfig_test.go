package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invite-redirector/internal/domain"
)

const testConnectionString = "https://edge-config.vercel.com/ecfg_abc?token=read-token"

// fakeEdgeConfig serves the management API and the edge read endpoint.
type fakeEdgeConfig struct {
	mu        sync.Mutex
	value     *domain.InvitationRecord
	apiStatus int
	apiReads  int
	edgeReads int
	lastTeam  string
}

func (f *fakeEdgeConfig) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/edge-config/ecfg_abc/item/slack_invite", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.apiReads++
		f.lastTeam = r.URL.Query().Get("teamId")
		assert.Equal(t, "Bearer api-token", r.Header.Get("Authorization"))
		if f.apiStatus != 0 {
			w.WriteHeader(f.apiStatus)
			return
		}
		if f.value == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"key": "slack_invite", "value": f.value})
	})
	mux.HandleFunc("/v1/edge-config/ecfg_abc/items", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		assert.Equal(t, http.MethodPatch, r.Method)
		var body struct {
			Items []struct {
				Operation string                  `json:"operation"`
				Key       string                  `json:"key"`
				Value     domain.InvitationRecord `json:"value"`
			} `json:"items"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) || !assert.Len(t, body.Items, 1) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "upsert", body.Items[0].Operation)
		assert.Equal(t, "slack_invite", body.Items[0].Key)
		v := body.Items[0].Value
		f.value = &v
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/ecfg_abc/item/slack_invite", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.edgeReads++
		assert.Equal(t, "read-token", r.URL.Query().Get("token"))
		if f.value == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(f.value)
	})
	return mux
}

func newTestEdgeStore(t *testing.T, fake *fakeEdgeConfig, apiToken, teamID string) *EdgeConfigStore {
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	store, err := NewEdgeConfigStore(EdgeConfigOptions{
		ConnectionString: testConnectionString,
		APIToken:         apiToken,
		TeamID:           teamID,
		Key:              "slack_invite",
		APIBaseURL:       srv.URL,
		EdgeBaseURL:      srv.URL,
		HTTPClient:       srv.Client(),
	})
	require.NoError(t, err)
	return store
}

func TestExtractEdgeConfigID(t *testing.T) {
	id, err := extractEdgeConfigID(testConnectionString)
	require.NoError(t, err)
	assert.Equal(t, "ecfg_abc", id)

	_, err = extractEdgeConfigID("https://example.com/ecfg_abc")
	assert.ErrorIs(t, err, ErrInvalidConnectionString)
}

func TestEdgeConfigStore_WriteThenRead(t *testing.T) {
	ctx := context.Background()
	fake := &fakeEdgeConfig{}
	store := newTestEdgeStore(t, fake, "api-token", "team_1")
	chain := NewChain(store, store.Readers()...)

	_, err := chain.Get(ctx)
	assert.True(t, IsNotFound(err))

	require.NoError(t, chain.Set(ctx, sampleRecord()))

	got, err := chain.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRecord().URL, got.URL)
	assert.Equal(t, "team_1", fake.lastTeam)
}

func TestEdgeConfigStore_FallsBackToEdgeRead(t *testing.T) {
	ctx := context.Background()
	fake := &fakeEdgeConfig{value: sampleRecord(), apiStatus: http.StatusInternalServerError}
	store := newTestEdgeStore(t, fake, "api-token", "")

	got, err := NewChain(store, store.Readers()...).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRecord().URL, got.URL)
	assert.Equal(t, 1, fake.apiReads)
	assert.Equal(t, 1, fake.edgeReads)
}

func TestEdgeConfigStore_WriteRequiresAPIToken(t *testing.T) {
	fake := &fakeEdgeConfig{}
	store := newTestEdgeStore(t, fake, "", "")

	assert.Len(t, store.Readers(), 1)
	err := store.Write(context.Background(), sampleRecord())
	assert.True(t, IsTransport(err))
	assert.Contains(t, err.Error(), "VERCEL_API_TOKEN")
}
