package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"evdash/backend/services/dashboard-service/internal/identity"
	"evdash/backend/services/dashboard-service/internal/models"
	"evdash/backend/services/dashboard-service/internal/service"
)

// StationsHandlers serves the station catalogue.
type StationsHandlers struct {
	stations *service.StationsService
	logger   *zap.Logger
}

// NewStationsHandlers returns handler.
func NewStationsHandlers(stations *service.StationsService, logger *zap.Logger) *StationsHandlers {
	return &StationsHandlers{stations: stations, logger: logger}
}

type stationRequest struct {
	Name          *string               `json:"name"`
	Location      *string               `json:"location"`
	Power         *string               `json:"power"`
	ConnectorType *string               `json:"connectorType"`
	Status        *models.StationStatus `json:"status"`
	Uptime        *flexFloat            `json:"uptime"`
	Latitude      *flexFloat            `json:"latitude"`
	Longitude     *flexFloat            `json:"longitude"`
}

func (req stationRequest) input() service.StationInput {
	return service.StationInput{
		Name:          req.Name,
		Location:      req.Location,
		Power:         req.Power,
		ConnectorType: req.ConnectorType,
		Status:        req.Status,
		Uptime:        req.Uptime.ptr(),
		Latitude:      req.Latitude.ptr(),
		Longitude:     req.Longitude.ptr(),
	}
}

// List handles GET /api/stations.
func (h *StationsHandlers) List(w http.ResponseWriter, r *http.Request, _ identity.Identity) {
	stations, err := h.stations.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch stations")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stations": stations})
}

// Get handles GET /api/stations/{id}.
func (h *StationsHandlers) Get(w http.ResponseWriter, r *http.Request, _ identity.Identity) {
	station, err := h.stations.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch station")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"station": station})
}

// Create handles POST /api/stations.
func (h *StationsHandlers) Create(w http.ResponseWriter, r *http.Request, caller identity.Identity) {
	var req stationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	station, err := h.stations.Create(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create station")
		return
	}
	h.logger.Debug("station created via api", zap.String("station_id", station.ID), zap.String("by", caller.ID))
	writeJSON(w, http.StatusCreated, map[string]interface{}{"station": station})
}

// Update handles PUT /api/stations/{id}.
func (h *StationsHandlers) Update(w http.ResponseWriter, r *http.Request, _ identity.Identity) {
	var req stationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	station, err := h.stations.Update(r.Context(), r.PathValue("id"), req.input())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update station")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"station": station})
}

// Delete handles DELETE /api/stations/{id}.
func (h *StationsHandlers) Delete(w http.ResponseWriter, r *http.Request, _ identity.Identity) {
	if err := h.stations.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete station")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Station deleted successfully"})
}
