// Package seed loads the demo accounts, stations and sessions used for local
// development and screenshots.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"evdash/backend/services/dashboard-service/internal/models"
	"evdash/backend/services/dashboard-service/internal/password"
	"evdash/backend/services/dashboard-service/internal/repository"
)

// DemoPassword is shared by the seeded accounts.
const DemoPassword = "password123"

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type StationStore interface {
	Create(ctx context.Context, st *models.Station) error
	List(ctx context.Context) ([]models.Station, error)
}

type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
}

// Result summarises what a run inserted.
type Result struct {
	Users    int
	Stations int
	Sessions int
}

// Seeder inserts demo data. Runs are idempotent: accounts are matched by email
// and the catalogue is only loaded into an empty station table.
type Seeder struct {
	users    UserStore
	stations StationStore
	sessions SessionStore
	hasher   password.Hasher
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// New builds a seeder. Session start times are interpreted in loc.
func New(users UserStore, stations StationStore, sessions SessionStore, hasher password.Hasher, loc *time.Location, logger *zap.Logger) *Seeder {
	if loc == nil {
		loc = time.Local
	}
	return &Seeder{
		users:    users,
		stations: stations,
		sessions: sessions,
		hasher:   hasher,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

type demoUser struct {
	email, name string
	role        models.Role
}

var demoUsers = []demoUser{
	{"admin@evdashboard.com", "Admin", models.RoleAdmin},
	{"user@evdashboard.com", "Regular User", models.RoleUser},
}

func coords(lat, lng float64) (*float64, *float64) { return &lat, &lng }

func demoStations() []models.Station {
	type row struct {
		name, location, power, connector string
		status                           models.StationStatus
		lat, lng, uptime                 float64
	}
	rows := []row{
		{"Station A - Sandton City", "Sandton", "22 kW", "Type 2", models.StationActive, -26.1076, 28.0567, 99.2},
		{"Station B - Rosebank Mall", "Rosebank", "7 kW", "Type 2", models.StationOffline, -26.1476, 28.0415, 0},
		{"Station C - Menlyn Park", "Pretoria", "50 kW", "CCS", models.StationActive, -25.7863, 28.2773, 98.5},
		{"Station D - CBD Center", "Johannesburg CBD", "22 kW", "Type 2", models.StationActive, -26.2041, 28.0473, 97.8},
		{"Station E - Midrand Plaza", "Midrand", "50 kW", "CCS", models.StationMaintenance, -25.9953, 28.1289, 0},
		{"Station F - Centurion Mall", "Centurion", "7 kW", "Type 2", models.StationActive, -25.8601, 28.1894, 96.3},
	}
	out := make([]models.Station, len(rows))
	for i, r := range rows {
		lat, lng := coords(r.lat, r.lng)
		out[i] = models.Station{
			Name:          r.name,
			Location:      r.location,
			Power:         r.power,
			ConnectorType: r.connector,
			Status:        r.status,
			Uptime:        r.uptime,
			Latitude:      lat,
			Longitude:     lng,
		}
	}
	return out
}

type demoSession struct {
	code     string
	station  int // index into demoStations
	user     int // index into demoUsers
	start    string
	end      string
	duration int
	energy   float64
	cost     float64
	status   models.SessionStatus
}

var demoSessions = []demoSession{
	{"S-001", 0, 0, "2024-11-16 12:05", "2024-11-16 12:45", 40, 12, 84, models.SessionCompleted},
	{"S-002", 0, 1, "2024-11-16 13:15", "", 0, 4, 28, models.SessionCharging},
	{"S-003", 2, 0, "2024-11-16 10:20", "2024-11-16 10:50", 30, 7, 49, models.SessionCompleted},
	{"S-004", 0, 1, "2024-11-16 09:15", "2024-11-16 10:05", 50, 15, 105, models.SessionCompleted},
	{"S-005", 3, 0, "2024-11-16 11:30", "2024-11-16 11:35", 5, 0, 0, models.SessionFailed},
	{"S-006", 2, 1, "2024-11-15 08:00", "2024-11-15 09:15", 75, 22, 154, models.SessionCompleted},
	{"S-007", 5, 0, "2024-11-15 14:20", "2024-11-15 15:30", 70, 18, 126, models.SessionCompleted},
}

const demoTimeLayout = "2006-01-02 15:04"

// Run inserts whatever demo data is missing.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result

	userIDs := make([]string, len(demoUsers))
	for i, du := range demoUsers {
		id, created, err := s.ensureUser(ctx, du)
		if err != nil {
			return res, err
		}
		userIDs[i] = id
		if created {
			res.Users++
		}
	}

	existing, err := s.stations.List(ctx)
	if err != nil {
		return res, err
	}
	if len(existing) > 0 {
		s.logger.Info("stations present, skipping catalogue seed", zap.Int("stations", len(existing)))
		return res, nil
	}

	stations := demoStations()
	stationIDs := make([]string, len(stations))
	for i := range stations {
		st := &stations[i]
		now := s.now().UTC().Truncate(time.Microsecond)
		st.ID = uuid.NewString()
		st.CreatedAt, st.UpdatedAt = now, now
		if err := s.stations.Create(ctx, st); err != nil {
			return res, fmt.Errorf("seed station %s: %w", st.Name, err)
		}
		stationIDs[i] = st.ID
		res.Stations++
		s.logger.Info("seeded station", zap.String("name", st.Name))
	}

	for _, ds := range demoSessions {
		session, err := s.session(ds, stationIDs[ds.station], userIDs[ds.user])
		if err != nil {
			return res, err
		}
		if err := s.sessions.Create(ctx, session); err != nil {
			return res, fmt.Errorf("seed session %s: %w", ds.code, err)
		}
		res.Sessions++
		s.logger.Info("seeded session", zap.String("session_code", ds.code))
	}
	return res, nil
}

func (s *Seeder) ensureUser(ctx context.Context, du demoUser) (string, bool, error) {
	existing, err := s.users.GetByEmail(ctx, du.email)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return "", false, err
	}

	hash, err := s.hasher.Hash(DemoPassword)
	if err != nil {
		return "", false, err
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        du.email,
		Name:         du.name,
		PasswordHash: hash,
		Role:         du.role,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", false, fmt.Errorf("seed user %s: %w", du.email, err)
	}
	s.logger.Info("seeded user", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return user.ID, true, nil
}

func (s *Seeder) session(ds demoSession, stationID, userID string) (*models.Session, error) {
	start, err := time.ParseInLocation(demoTimeLayout, ds.start, s.loc)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC().Truncate(time.Microsecond)
	session := &models.Session{
		ID:          uuid.NewString(),
		SessionCode: ds.code,
		StationID:   stationID,
		UserID:      userID,
		StartTime:   start,
		EnergyKWh:   ds.energy,
		Cost:        ds.cost,
		Status:      ds.status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if ds.end != "" {
		end, err := time.ParseInLocation(demoTimeLayout, ds.end, s.loc)
		if err != nil {
			return nil, err
		}
		duration := ds.duration
		session.EndTime = &end
		session.Duration = &duration
	}
	return session, nil
}
