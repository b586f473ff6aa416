package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"invite-redirector/internal/logger"
	"invite-redirector/internal/service"
)

const unavailablePage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Invitation Unavailable</title>
<style>
body{min-height:100vh;margin:0;display:flex;align-items:center;justify-content:center;background:#f3f4f6;font-family:system-ui,sans-serif}
main{background:#fff;padding:2rem;border-radius:.5rem;box-shadow:0 1px 3px rgba(0,0,0,.1);text-align:center}
h1{font-size:1.5rem;color:#1f2937}
p{color:#4b5563}
small{color:#6b7280}
</style>
</head>
<body>
<main>
<h1>Invitation Unavailable</h1>
<p>No active invitation is currently available or it has expired.</p>
<small>Please contact the administrator for a new invitation.</small>
</main>
</body>
</html>
`

// InviteHandler serves the visitor redirect and the invite API
type InviteHandler struct {
	invites  service.InviteService
	adminURL string
}

// NewInviteHandler creates a new invite handler
func NewInviteHandler(invites service.InviteService, adminURL string) *InviteHandler {
	return &InviteHandler{
		invites:  invites,
		adminURL: adminURL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Redirect sends visitors to the current invitation, or renders the
// unavailable page when there is none to honor.
func (h *InviteHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	// Login callbacks land on the root; hand them to the admin UI.
	q := r.URL.Query()
	if q.Has("code") || q.Has("state") {
		http.Redirect(w, r, h.adminURL, http.StatusFound)
		return
	}

	res := h.invites.Reconcile(r.Context())
	if res.Redirectable {
		http.Redirect(w, r, res.Record.URL, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(unavailablePage))
}

// GetInvite returns the record with effective activity
func (h *InviteHandler) GetInvite(w http.ResponseWriter, r *http.Request) {
	rec, err := h.invites.Current(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Error reading invite", "error", err)
		writeError(w, http.StatusInternalServerError, "Error reading data")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// UpdateInvite replaces the invitation link
func (h *InviteHandler) UpdateInvite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL any `json:"url"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	url, _ := body.URL.(string)

	rec, err := h.invites.Replace(r.Context(), url)
	switch {
	case errors.Is(err, service.ErrURLRequired):
		writeError(w, http.StatusBadRequest, "URL is required")
	case errors.Is(err, service.ErrInvalidURL):
		writeError(w, http.StatusBadRequest, "Invalid URL format")
	case err != nil:
		logger.ErrorContext(r.Context(), "Error in POST /api/invite", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Error saving data",
			"details": err.Error(),
		})
	default:
		writeJSON(w, http.StatusOK, rec)
	}
}

// ValidateInvite probes the stored link and records the outcome
func (h *InviteHandler) ValidateInvite(w http.ResponseWriter, r *http.Request) {
	res, err := h.invites.ValidateStored(r.Context())
	switch {
	case errors.Is(err, service.ErrNoInvite):
		writeError(w, http.StatusBadRequest, "No invite link to validate")
	case err != nil:
		logger.ErrorContext(r.Context(), "Validation error", "error", err)
		writeError(w, http.StatusInternalServerError, "Error validating link")
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

// CheckInvite runs the scheduled check
func (h *InviteHandler) CheckInvite(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.invites.Check(r.Context()))
}

// Healthz reports liveness
func (h *InviteHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
