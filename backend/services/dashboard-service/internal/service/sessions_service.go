package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"evdash/backend/services/dashboard-service/internal/models"
)

// SessionRepository defines storage contract used by SessionsService.
type SessionRepository interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context) ([]models.Session, error)
	Update(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id string) error
}

// StationChecker answers whether a station id exists.
type StationChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// CreateSessionInput is the payload of a new charging session.
type CreateSessionInput struct {
	SessionCode string
	StationID   string
	StartTime   *time.Time
	EndTime     *time.Time
	Duration    *int
	EnergyKWh   *float64
	Cost        *float64
	Status      *models.SessionStatus
}

// UpdateSessionInput carries the progress fields of a session. Nil fields are absent.
type UpdateSessionInput struct {
	EndTime   *time.Time
	Duration  *int
	EnergyKWh *float64
	Cost      *float64
	Status    *models.SessionStatus
}

// SessionsService manages charging sessions.
type SessionsService struct {
	repo     SessionRepository
	stations StationChecker
	logger   *zap.Logger
	now      func() time.Time
}

// NewSessionsService builds service.
func NewSessionsService(repo SessionRepository, stations StationChecker, logger *zap.Logger) *SessionsService {
	return &SessionsService{repo: repo, stations: stations, logger: logger, now: time.Now}
}

// List returns every session, newest first.
func (s *SessionsService) List(ctx context.Context) ([]models.Session, error) {
	return s.repo.List(ctx)
}

// Get returns one session.
func (s *SessionsService) Get(ctx context.Context, id string) (*models.Session, error) {
	return s.repo.Get(ctx, id)
}

// Create records a session started by userID. The station must exist and the
// session code must be unused.
func (s *SessionsService) Create(ctx context.Context, userID string, in CreateSessionInput) (*models.Session, error) {
	if strings.TrimSpace(in.SessionCode) == "" || strings.TrimSpace(in.StationID) == "" || in.StartTime == nil || in.StartTime.IsZero() {
		return nil, invalid(msgMissingFields)
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	session := &models.Session{
		ID:          uuid.NewString(),
		SessionCode: in.SessionCode,
		StationID:   in.StationID,
		UserID:      userID,
		StartTime:   in.StartTime.UTC(),
		Status:      models.SessionCharging,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := applySession(session, UpdateSessionInput{
		EndTime:   in.EndTime,
		Duration:  in.Duration,
		EnergyKWh: in.EnergyKWh,
		Cost:      in.Cost,
		Status:    in.Status,
	}); err != nil {
		return nil, err
	}

	exists, err := s.stations.Exists(ctx, in.StationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrStationNotFound
	}

	taken, err := s.repo.CodeExists(ctx, in.SessionCode)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateSessionCode
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info("session created",
		zap.String("session_id", session.ID),
		zap.String("session_code", session.SessionCode),
		zap.String("station_id", session.StationID),
		zap.String("user_id", userID),
	)
	return s.repo.Get(ctx, session.ID)
}

// Update applies the present fields of in to session id.
func (s *SessionsService) Update(ctx context.Context, id string, in UpdateSessionInput) (*models.Session, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applySession(session, in); err != nil {
		return nil, err
	}
	session.UpdatedAt = s.now().UTC().Truncate(time.Microsecond)

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info("session updated", zap.String("session_id", id), zap.String("status", string(session.Status)))
	return s.repo.Get(ctx, id)
}

// Delete removes one session.
func (s *SessionsService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("session deleted", zap.String("session_id", id))
	return nil
}

// applySession validates and copies progress fields. A supplied end time without
// a duration derives the duration in whole minutes.
func applySession(session *models.Session, in UpdateSessionInput) error {
	if in.Status != nil {
		if !in.Status.Valid() {
			return invalid("Invalid status: must be CHARGING, COMPLETED or FAILED")
		}
		session.Status = *in.Status
	}
	if in.EnergyKWh != nil {
		if *in.EnergyKWh < 0 {
			return invalid("Invalid energyKwh: must not be negative")
		}
		session.EnergyKWh = *in.EnergyKWh
	}
	if in.Cost != nil {
		if *in.Cost < 0 {
			return invalid("Invalid cost: must not be negative")
		}
		session.Cost = *in.Cost
	}
	if in.Duration != nil {
		if *in.Duration < 0 {
			return invalid("Invalid duration: must not be negative")
		}
		d := *in.Duration
		session.Duration = &d
	}
	if in.EndTime != nil {
		end := in.EndTime.UTC()
		if end.Before(session.StartTime) {
			return invalid("Invalid endTime: must not be before startTime")
		}
		session.EndTime = &end
		if in.Duration == nil {
			d := int(end.Sub(session.StartTime) / time.Minute)
			session.Duration = &d
		}
	}
	return nil
}
