package service

import (
	"context"

	"evdash/backend/services/dashboard-service/internal/analytics"
	"evdash/backend/services/dashboard-service/internal/models"
)

// StationLister reads all stations.
type StationLister interface {
	List(ctx context.Context) ([]models.Station, error)
}

// SessionLister reads all sessions.
type SessionLister interface {
	List(ctx context.Context) ([]models.Session, error)
}

// DashboardService loads fresh records and hands them to the aggregation engine.
type DashboardService struct {
	stations StationLister
	sessions SessionLister
	engine   *analytics.Engine
}

// NewDashboardService builds service.
func NewDashboardService(stations StationLister, sessions SessionLister, engine *analytics.Engine) *DashboardService {
	return &DashboardService{stations: stations, sessions: sessions, engine: engine}
}

// Dashboard returns the aggregated overview.
func (s *DashboardService) Dashboard(ctx context.Context) (*analytics.Dashboard, error) {
	stations, err := s.stations.List(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	d := s.engine.Build(stations, sessions)
	return &d, nil
}
