package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"evdash/backend/services/dashboard-service/internal/models"
)

// stationDetailSessions is how many recent sessions a station detail carries.
const stationDetailSessions = 10

// StationRepository defines storage contract used by StationsService.
type StationRepository interface {
	Create(ctx context.Context, st *models.Station) error
	Get(ctx context.Context, id string) (*models.Station, error)
	List(ctx context.Context) ([]models.Station, error)
	Update(ctx context.Context, st *models.Station) error
	Delete(ctx context.Context, id string) error
}

// StationSessionLister reads the latest sessions of one station.
type StationSessionLister interface {
	ListByStation(ctx context.Context, stationID string, limit int) ([]models.Session, error)
}

// StationInput carries station fields from a request. Nil fields are absent.
type StationInput struct {
	Name          *string
	Location      *string
	Power         *string
	ConnectorType *string
	Status        *models.StationStatus
	Uptime        *float64
	Latitude      *float64
	Longitude     *float64
}

// StationsService manages the station catalogue.
type StationsService struct {
	repo     StationRepository
	sessions StationSessionLister
	logger   *zap.Logger
	now      func() time.Time
}

// NewStationsService builds service.
func NewStationsService(repo StationRepository, sessions StationSessionLister, logger *zap.Logger) *StationsService {
	return &StationsService{repo: repo, sessions: sessions, logger: logger, now: time.Now}
}

// List returns every station with its session count.
func (s *StationsService) List(ctx context.Context) ([]models.Station, error) {
	return s.repo.List(ctx)
}

// Get returns a station with its latest sessions attached.
func (s *StationsService) Get(ctx context.Context, id string) (*models.Station, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListByStation(ctx, id, stationDetailSessions)
	if err != nil {
		return nil, err
	}
	st.Sessions = sessions
	return st, nil
}

// Create registers a new station. Name, location, power and connector type are required.
func (s *StationsService) Create(ctx context.Context, in StationInput) (*models.Station, error) {
	if blank(in.Name) || blank(in.Location) || blank(in.Power) || blank(in.ConnectorType) {
		return nil, invalid(msgMissingFields)
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	st := &models.Station{
		ID:            uuid.NewString(),
		Name:          *in.Name,
		Location:      *in.Location,
		Power:         *in.Power,
		ConnectorType: *in.ConnectorType,
		Status:        models.StationActive,
		Uptime:        100,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := applyStation(st, in); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	s.logger.Info("station created", zap.String("station_id", st.ID), zap.String("name", st.Name))
	return st, nil
}

// Update applies the present fields of in to station id.
func (s *StationsService) Update(ctx context.Context, id string, in StationInput) (*models.Station, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyStation(st, in); err != nil {
		return nil, err
	}
	st.UpdatedAt = s.now().UTC().Truncate(time.Microsecond)

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	s.logger.Info("station updated", zap.String("station_id", st.ID), zap.String("status", string(st.Status)))
	return st, nil
}

// Delete removes a station together with its sessions.
func (s *StationsService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("station deleted", zap.String("station_id", id))
	return nil
}

func applyStation(st *models.Station, in StationInput) error {
	for _, field := range []*string{in.Name, in.Location, in.Power, in.ConnectorType} {
		if field != nil && blank(field) {
			return invalid(msgMissingFields)
		}
	}
	if in.Name != nil {
		st.Name = *in.Name
	}
	if in.Location != nil {
		st.Location = *in.Location
	}
	if in.Power != nil {
		st.Power = *in.Power
	}
	if in.ConnectorType != nil {
		st.ConnectorType = *in.ConnectorType
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return invalid("Invalid status: must be ACTIVE, OFFLINE or MAINTENANCE")
		}
		st.Status = *in.Status
	}
	if in.Uptime != nil {
		if *in.Uptime < 0 || *in.Uptime > 100 {
			return invalid("Invalid uptime: must be between 0 and 100")
		}
		st.Uptime = *in.Uptime
	}
	if in.Latitude != nil {
		if *in.Latitude < -90 || *in.Latitude > 90 {
			return invalid("Invalid latitude")
		}
		st.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		if *in.Longitude < -180 || *in.Longitude > 180 {
			return invalid("Invalid longitude")
		}
		st.Longitude = in.Longitude
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
