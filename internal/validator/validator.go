package validator

import (
	"context"
	"net/http"
	"strings"
	"time"

	"invite-redirector/internal/logger"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "SlackInviteValidator/1.0"
)

// DefaultAllowedHosts are the substrings an invitation link must contain.
var DefaultAllowedHosts = []string{"join.slack.com", "slack.com/signup"}

// Options configures a LinkValidator. Zero values take the defaults.
type Options struct {
	AllowedHosts []string
	Timeout      time.Duration
	UserAgent    string
	HTTPClient   *http.Client
}

// LinkValidator checks that an invitation link still resolves.
type LinkValidator struct {
	client       *http.Client
	allowedHosts []string
	timeout      time.Duration
	userAgent    string
}

// New creates a LinkValidator.
func New(opts Options) *LinkValidator {
	v := &LinkValidator{
		client:       opts.HTTPClient,
		allowedHosts: opts.AllowedHosts,
		timeout:      opts.Timeout,
		userAgent:    opts.UserAgent,
	}
	if v.client == nil {
		v.client = &http.Client{}
	}
	// The 3xx itself is the answer; invitation links bounce to sign-in pages.
	client := *v.client
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	v.client = &client

	if len(v.allowedHosts) == 0 {
		v.allowedHosts = DefaultAllowedHosts
	}
	if v.timeout <= 0 {
		v.timeout = DefaultTimeout
	}
	if v.userAgent == "" {
		v.userAgent = DefaultUserAgent
	}
	return v
}

// Allowed reports whether url names an invitation host.
func (v *LinkValidator) Allowed(url string) bool {
	for _, host := range v.allowedHosts {
		if strings.Contains(url, host) {
			return true
		}
	}
	return false
}

// Validate probes url with a HEAD request. Any status in [200,400) is valid;
// other statuses, timeouts and transport errors are not.
func (v *LinkValidator) Validate(ctx context.Context, url string) bool {
	url = strings.TrimSpace(url)
	if url == "" || !v.Allowed(url) {
		logger.Debug("Invite link rejected before probe", "url", url)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		logger.Debug("Invite link probe could not be built", "url", url, "error", err)
		return false
	}
	req.Header.Set("User-Agent", v.userAgent)

	logger.ExternalServiceCall("invite-link", "head", "url", url)
	resp, err := v.client.Do(req)
	if err != nil {
		logger.Warn("Invite link probe failed", "url", url, "error", err)
		return false
	}
	resp.Body.Close()

	valid := resp.StatusCode >= 200 && resp.StatusCode < 400
	logger.Debug("Invite link probed", "url", url, "status", resp.StatusCode, "valid", valid)
	return valid
}
