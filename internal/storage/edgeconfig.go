package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"invite-redirector/internal/domain"
)

var edgeConfigIDPattern = regexp.MustCompile(`edge-config\.vercel\.com/([^?/]+)`)

// ErrInvalidConnectionString is returned for an unparseable EDGE_CONFIG value.
var ErrInvalidConnectionString = errors.New("invalid edge config connection string")

// EdgeConfigOptions configures the managed config backend.
type EdgeConfigOptions struct {
	ConnectionString string // https://edge-config.vercel.com/<id>?token=<read token>
	APIToken         string // management API token, required for writes
	TeamID           string
	Key              string
	APIBaseURL       string // defaults to https://api.vercel.com
	EdgeBaseURL      string // defaults to the connection string origin
	HTTPClient       *http.Client
}

// EdgeConfigStore reads and writes the record in a managed edge config.
// Reads try the management API first and then the edge read endpoint,
// since the edge endpoint may serve a briefly stale copy.
type EdgeConfigStore struct {
	client    *http.Client
	id        string
	readToken string
	apiToken  string
	teamID    string
	key       string
	apiBase   string
	edgeBase  string
}

// NewEdgeConfigStore parses the connection string and creates the store.
func NewEdgeConfigStore(opts EdgeConfigOptions) (*EdgeConfigStore, error) {
	id, err := extractEdgeConfigID(opts.ConnectionString)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(opts.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	apiBase := opts.APIBaseURL
	if apiBase == "" {
		apiBase = "https://api.vercel.com"
	}
	edgeBase := opts.EdgeBaseURL
	if edgeBase == "" {
		edgeBase = u.Scheme + "://" + u.Host
	}

	return &EdgeConfigStore{
		client:    client,
		id:        id,
		readToken: u.Query().Get("token"),
		apiToken:  opts.APIToken,
		teamID:    opts.TeamID,
		key:       opts.Key,
		apiBase:   strings.TrimRight(apiBase, "/"),
		edgeBase:  strings.TrimRight(edgeBase, "/"),
	}, nil
}

func extractEdgeConfigID(connectionString string) (string, error) {
	m := edgeConfigIDPattern.FindStringSubmatch(connectionString)
	if m == nil {
		return "", ErrInvalidConnectionString
	}
	return m[1], nil
}

func (s *EdgeConfigStore) Name() string {
	return "edgeconfig"
}

// Readers returns the read strategies in the order they should be tried.
func (s *EdgeConfigStore) Readers() []Reader {
	var readers []Reader
	if s.apiToken != "" {
		readers = append(readers, &edgeAPIReader{s})
	}
	if s.readToken != "" {
		readers = append(readers, &edgeItemReader{s})
	}
	return readers
}

func (s *EdgeConfigStore) withTeam(endpoint string) string {
	if s.teamID == "" {
		return endpoint
	}
	return endpoint + "?teamId=" + url.QueryEscape(s.teamID)
}

// Write upserts the record through the management API.
func (s *EdgeConfigStore) Write(ctx context.Context, rec *domain.InvitationRecord) error {
	if s.apiToken == "" {
		return &TransportError{Backend: s.Name(), Op: "write", Err: errors.New("VERCEL_API_TOKEN is not set")}
	}

	body, err := json.Marshal(map[string]any{
		"items": []map[string]any{
			{
				"operation": "upsert",
				"key":       s.key,
				"value":     rec,
			},
		},
	})
	if err != nil {
		return &TransportError{Backend: s.Name(), Op: "encode", Err: err}
	}

	endpoint := s.withTeam(fmt.Sprintf("%s/v1/edge-config/%s/items", s.apiBase, url.PathEscape(s.id)))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Backend: s.Name(), Op: "write", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &TransportError{Backend: s.Name(), Op: "write", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &TransportError{
			Backend: s.Name(),
			Op:      "write",
			Err:     fmt.Errorf("edge config update failed: %d %s. %s", resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(text))),
		}
	}
	return nil
}

// Read uses the read strategies in order, for callers that want the store
// as a single Backend.
func (s *EdgeConfigStore) Read(ctx context.Context) (*domain.InvitationRecord, error) {
	return NewChain(nil, s.Readers()...).Get(ctx)
}

func (s *EdgeConfigStore) getJSON(ctx context.Context, backend, endpoint, bearer string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &TransportError{Backend: backend, Op: "read", Err: err}
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &TransportError{Backend: backend, Op: "read", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Backend: backend, Key: s.key}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &TransportError{Backend: backend, Op: "read", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Backend: backend, Op: "decode", Err: err}
	}
	return nil
}

// edgeAPIReader reads through the management REST API.
type edgeAPIReader struct {
	s *EdgeConfigStore
}

func (r *edgeAPIReader) Name() string {
	return "edgeconfig-api"
}

func (r *edgeAPIReader) Read(ctx context.Context) (*domain.InvitationRecord, error) {
	endpoint := r.s.withTeam(fmt.Sprintf("%s/v1/edge-config/%s/item/%s",
		r.s.apiBase, url.PathEscape(r.s.id), url.PathEscape(r.s.key)))

	var item struct {
		Value *domain.InvitationRecord `json:"value"`
	}
	if err := r.s.getJSON(ctx, r.Name(), endpoint, r.s.apiToken, &item); err != nil {
		return nil, err
	}
	if item.Value == nil {
		return nil, &NotFoundError{Backend: r.Name(), Key: r.s.key}
	}
	return item.Value, nil
}

// edgeItemReader reads through the edge read endpoint of the connection string.
type edgeItemReader struct {
	s *EdgeConfigStore
}

func (r *edgeItemReader) Name() string {
	return "edgeconfig-edge"
}

func (r *edgeItemReader) Read(ctx context.Context) (*domain.InvitationRecord, error) {
	endpoint := fmt.Sprintf("%s/%s/item/%s?token=%s",
		r.s.edgeBase, url.PathEscape(r.s.id), url.PathEscape(r.s.key), url.QueryEscape(r.s.readToken))

	var rec *domain.InvitationRecord
	if err := r.s.getJSON(ctx, r.Name(), endpoint, "", &rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &NotFoundError{Backend: r.Name(), Key: r.s.key}
	}
	return rec, nil
}
