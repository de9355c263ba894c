package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventadmission/internal/delivery/http/controllers"
	"eventadmission/internal/delivery/http/helpers"
	"eventadmission/internal/delivery/http/middleware"
	"eventadmission/internal/domain"

	_ "eventadmission/docs"
)

// RouterConfig holds what NewRouter needs beyond the controllers.
type RouterConfig struct {
	Verifier  domain.TokenVerifier
	AdminRole string
	Logger    *slog.Logger
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig, events *controllers.EventController, requests *controllers.RequestController) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	admin := func(h http.HandlerFunc) http.HandlerFunc { return auth(middleware.RequireRole(cfg.AdminRole)(h)) }

	// Public
	mux.HandleFunc("GET /health", Health)
	mux.HandleFunc("GET /events/{eventID}", events.GetPublishedEvent)

	// Initiator
	mux.HandleFunc("POST /events", auth(events.CreateEvent))
	mux.HandleFunc("GET /users/me/events/{eventID}", auth(events.GetOwnEvent))
	mux.HandleFunc("PATCH /users/me/events/{eventID}", auth(events.UpdateOwnEvent))
	mux.HandleFunc("GET /users/me/events/{eventID}/requests", auth(requests.ListEventRequests))
	mux.HandleFunc("PATCH /users/me/events/{eventID}/requests", auth(requests.ResolveRequests))

	// Requester
	mux.HandleFunc("POST /users/me/requests", auth(requests.CreateRequest))
	mux.HandleFunc("GET /users/me/requests", auth(requests.ListMyRequests))
	mux.HandleFunc("PATCH /users/me/requests/{requestID}/cancel", auth(requests.CancelRequest))

	// Admin
	mux.HandleFunc("PATCH /admin/events/{eventID}", admin(events.AdminUpdateEvent))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status is ok"
// @Router /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
