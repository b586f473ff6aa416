package validator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// The test server URL does not contain a Slack host, so tests allow 127.0.0.1.
func newTestValidator(srv *httptest.Server, timeout time.Duration) *LinkValidator {
	return New(Options{
		AllowedHosts: []string{"127.0.0.1"},
		Timeout:      timeout,
		HTTPClient:   srv.Client(),
	})
}

func TestValidate_StatusRanges(t *testing.T) {
	tests := []struct {
		status int
		valid  bool
	}{
		{http.StatusOK, true},
		{http.StatusNoContent, true},
		{http.StatusFound, true},
		{http.StatusPermanentRedirect, true},
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
		{http.StatusGone, false},
		{http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodHead, r.Method)
				assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
				if tt.status >= 300 && tt.status < 400 {
					w.Header().Set("Location", "/signin")
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			v := newTestValidator(srv, time.Second)
			assert.Equal(t, tt.valid, v.Validate(context.Background(), srv.URL+"/t/x/shared_invite/zt-1"))
		})
	}
}

func TestValidate_RedirectNotFollowed(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		http.Redirect(w, r, "/gone", http.StatusFound)
	}))
	defer srv.Close()

	v := newTestValidator(srv, time.Second)
	assert.True(t, v.Validate(context.Background(), srv.URL+"/invite"))
	assert.Equal(t, 1, hits)
}

func TestValidate_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	v := newTestValidator(srv, 50*time.Millisecond)
	assert.False(t, v.Validate(context.Background(), srv.URL+"/slow"))
}

func TestValidate_RejectedBeforeProbe(t *testing.T) {
	v := New(Options{})

	assert.False(t, v.Validate(context.Background(), ""))
	assert.False(t, v.Validate(context.Background(), "   "))
	assert.False(t, v.Validate(context.Background(), "https://example.com/invite"))
}

func TestValidate_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	v := New(Options{AllowedHosts: []string{"127.0.0.1"}, Timeout: time.Second})
	assert.False(t, v.Validate(context.Background(), url))
}

func TestAllowed(t *testing.T) {
	v := New(Options{})
	assert.True(t, v.Allowed("https://join.slack.com/t/x/shared_invite/zt-1"))
	assert.True(t, v.Allowed("https://slack.com/signup#/domain-signup"))
	assert.False(t, v.Allowed("https://discord.gg/abc"))
}
