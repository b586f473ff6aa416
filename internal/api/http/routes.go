package http

import (
	"github.com/gorilla/mux"
)

// NewRouter registers the visitor, admin and cron endpoints
func NewRouter(handler *InviteHandler, auth *AuthMiddleware) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestLogger, Recoverer, auth.Handler)

	router.HandleFunc("/", handler.Redirect).Methods("GET", "HEAD").Name("redirect")
	router.HandleFunc("/healthz", handler.Healthz).Methods("GET").Name("healthz")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/invite", handler.GetInvite).Methods("GET").Name("invite.get")
	api.HandleFunc("/invite", handler.UpdateInvite).Methods("POST").Name("invite.update")
	api.HandleFunc("/invite/validate", handler.ValidateInvite).Methods("POST").Name("invite.validate")
	api.HandleFunc("/cron/check-invite", handler.CheckInvite).Methods("GET").Name("cron.check-invite")

	return router
}
