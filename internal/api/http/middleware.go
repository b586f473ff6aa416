package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"invite-redirector/internal/config"
	"invite-redirector/internal/logger"
	"invite-redirector/internal/security"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger tags each request with an ID and logs its outcome
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		logger.Info("HTTP request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// Recoverer turns a handler panic into a 500 for that request only
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("Handler panicked", "path", r.URL.Path, "panic", p)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// AuthMiddleware enforces the security level declared for the matched route
type AuthMiddleware struct {
	tokenManager security.TokenManager
	cronSecret   string
}

// NewAuthMiddleware creates the route security middleware
func NewAuthMiddleware(tm security.TokenManager, cronSecret string) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm, cronSecret: cronSecret}
}

// Handler is a mux.MiddlewareFunc
func (a *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}

		switch config.GetSecurityLevel(name) {
		case config.SecurityPublic:
			next.ServeHTTP(w, r)

		case config.SecurityCron:
			if !security.CronSecretMatches(r.Header.Get("Authorization"), a.cronSecret) {
				logger.Warn("Rejected cron request", "route", name)
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)

		default:
			token, ok := security.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			claims, err := a.tokenManager.ValidateAdminToken(token)
			if err != nil {
				logger.Warn("Rejected admin request", "route", name, "error", err)
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			logger.Debug("Admin request authorized", "route", name, "email", claims.Email)
			next.ServeHTTP(w, r)
		}
	})
}
