package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"evdash/backend/services/dashboard-service/internal/identity"
	"evdash/backend/services/dashboard-service/internal/service"
)

// DashboardHandlers serves the aggregated overview.
type DashboardHandlers struct {
	dashboard *service.DashboardService
	logger    *zap.Logger
}

// NewDashboardHandlers returns handler.
func NewDashboardHandlers(dashboard *service.DashboardService, logger *zap.Logger) *DashboardHandlers {
	return &DashboardHandlers{dashboard: dashboard, logger: logger}
}

// Get handles GET /api/dashboard.
func (h *DashboardHandlers) Get(w http.ResponseWriter, r *http.Request, _ identity.Identity) {
	d, err := h.dashboard.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch dashboard data")
		return
	}
	writeJSON(w, http.StatusOK, d)
}
