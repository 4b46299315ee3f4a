package httpserver

import (
	"net/http"

	"evdash/backend/services/dashboard-service/internal/http/handlers"
	"evdash/backend/services/dashboard-service/internal/rbac"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Gate              *rbac.Gate
	AuthHandlers      *handlers.AuthHandlers
	StationsHandlers  *handlers.StationsHandlers
	SessionsHandlers  *handlers.SessionsHandlers
	DashboardHandlers *handlers.DashboardHandlers
	HealthHandler     http.HandlerFunc
}

// NewRouter wires HTTP routes. Every /api route except signup and login sits
// behind the gate.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()
	gate := deps.Gate

	mux.Handle("GET /health", deps.HealthHandler)

	mux.HandleFunc("POST /api/auth/signup", deps.AuthHandlers.Signup)
	mux.HandleFunc("POST /api/auth/login", deps.AuthHandlers.Login)
	mux.Handle("POST /api/auth/logout", gate.Authenticated(deps.AuthHandlers.Logout))
	mux.Handle("GET /api/auth/me", gate.Authenticated(deps.AuthHandlers.Me))

	mux.Handle("GET /api/dashboard", gate.Authenticated(deps.DashboardHandlers.Get))

	mux.Handle("GET /api/stations", gate.Authenticated(deps.StationsHandlers.List))
	mux.Handle("POST /api/stations", gate.Admin(deps.StationsHandlers.Create))
	mux.Handle("GET /api/stations/{id}", gate.Authenticated(deps.StationsHandlers.Get))
	mux.Handle("PUT /api/stations/{id}", gate.Admin(deps.StationsHandlers.Update))
	mux.Handle("DELETE /api/stations/{id}", gate.Admin(deps.StationsHandlers.Delete))

	mux.Handle("GET /api/sessions", gate.Authenticated(deps.SessionsHandlers.List))
	mux.Handle("POST /api/sessions", gate.Admin(deps.SessionsHandlers.Create))
	mux.Handle("GET /api/sessions/{id}", gate.Authenticated(deps.SessionsHandlers.Get))
	mux.Handle("PUT /api/sessions/{id}", gate.Admin(deps.SessionsHandlers.Update))
	mux.Handle("DELETE /api/sessions/{id}", gate.Admin(deps.SessionsHandlers.Delete))

	return mux
}
