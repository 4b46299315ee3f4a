package rbac

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"evdash/backend/services/dashboard-service/internal/identity"
	"evdash/backend/services/dashboard-service/internal/models"
)

// Resolver turns a request into the calling identity; nil means anonymous.
type Resolver interface {
	Resolve(r *http.Request) (*identity.Identity, error)
}

// Handler is an HTTP handler that receives the authorized caller explicitly.
type Handler func(w http.ResponseWriter, r *http.Request, caller identity.Identity)

// Gate resolves the caller once per request and enforces a role before the handler runs.
type Gate struct {
	resolver Resolver
	logger   *zap.Logger
}

// NewGate builds a gate.
func NewGate(resolver Resolver, logger *zap.Logger) *Gate {
	return &Gate{resolver: resolver, logger: logger}
}

// Authenticated guards h with RequireAuthenticated.
func (g *Gate) Authenticated(h Handler) http.Handler {
	return g.Guard(models.RoleUser, h)
}

// Admin guards h with RequireAdmin.
func (g *Gate) Admin(h Handler) http.Handler {
	return g.Guard(models.RoleAdmin, h)
}

// Guard wraps h so it only runs when the caller holds required.
func (g *Gate) Guard(required models.Role, h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := g.resolver.Resolve(r)
		if err != nil {
			g.logger.Error("resolve caller failed", zap.Error(err), zap.String("path", r.URL.Path))
			writeDenied(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		decision := Authorize(caller, required)
		if !decision.Allowed {
			writeDenied(w, decision.Status, decision.Message)
			return
		}
		h(w, r, decision.Identity)
	})
}

func writeDenied(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
