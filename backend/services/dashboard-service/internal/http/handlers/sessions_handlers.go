package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"evdash/backend/services/dashboard-service/internal/identity"
	"evdash/backend/services/dashboard-service/internal/models"
	"evdash/backend/services/dashboard-service/internal/service"
)

// SessionsHandlers serves charging sessions.
type SessionsHandlers struct {
	sessions *service.SessionsService
	logger   *zap.Logger
}

// NewSessionsHandlers returns handler.
func NewSessionsHandlers(sessions *service.SessionsService, logger *zap.Logger) *SessionsHandlers {
	return &SessionsHandlers{sessions: sessions, logger: logger}
}

type sessionProgress struct {
	EndTime   *time.Time            `json:"endTime"`
	Duration  *flexInt              `json:"duration"`
	EnergyKWh *flexFloat            `json:"energyKwh"`
	Cost      *flexFloat            `json:"cost"`
	Status    *models.SessionStatus `json:"status"`
}

func (p sessionProgress) input() service.UpdateSessionInput {
	return service.UpdateSessionInput{
		EndTime:   p.EndTime,
		Duration:  p.Duration.ptr(),
		EnergyKWh: p.EnergyKWh.ptr(),
		Cost:      p.Cost.ptr(),
		Status:    p.Status,
	}
}

type createSessionRequest struct {
	SessionID string     `json:"sessionId"`
	StationID string     `json:"stationId"`
	StartTime *time.Time `json:"startTime"`
	sessionProgress
}

// List handles GET /api/sessions.
func (h *SessionsHandlers) List(w http.ResponseWriter, r *http.Request, _ identity.Identity) {
	sessions, err := h.sessions.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// Get handles GET /api/sessions/{id}.
func (h *SessionsHandlers) Get(w http.ResponseWriter, r *http.Request, _ identity.Identity) {
	session, err := h.sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

// Create handles POST /api/sessions. The caller becomes the session's user.
func (h *SessionsHandlers) Create(w http.ResponseWriter, r *http.Request, caller identity.Identity) {
	var req createSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	progress := req.input()
	session, err := h.sessions.Create(r.Context(), caller.ID, service.CreateSessionInput{
		SessionCode: req.SessionID,
		StationID:   req.StationID,
		StartTime:   req.StartTime,
		EndTime:     progress.EndTime,
		Duration:    progress.Duration,
		EnergyKWh:   progress.EnergyKWh,
		Cost:        progress.Cost,
		Status:      progress.Status,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create session")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"session": session})
}

// Update handles PUT /api/sessions/{id}.
func (h *SessionsHandlers) Update(w http.ResponseWriter, r *http.Request, _ identity.Identity) {
	var req sessionProgress
	if !decodeJSON(w, r, &req) {
		return
	}
	session, err := h.sessions.Update(r.Context(), r.PathValue("id"), req.input())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

// Delete handles DELETE /api/sessions/{id}.
func (h *SessionsHandlers) Delete(w http.ResponseWriter, r *http.Request, _ identity.Identity) {
	if err := h.sessions.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session deleted successfully"})
}
