package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"evdash/backend/services/dashboard-service/internal/db"
	"evdash/backend/services/dashboard-service/internal/models"
	"evdash/backend/services/dashboard-service/internal/repository"
)

var fixedNow = time.Date(2024, 11, 16, 12, 0, 0, 0, time.UTC)

type stack struct {
	conn     *sql.DB
	stations *StationsService
	sessions *SessionsService
	userID   string
}

func newStack(t *testing.T) *stack {
	t.Helper()
	conn, err := db.Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.Migrate(context.Background(), conn, db.SQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepository(conn, db.SQLite)
	user := &models.User{ID: "user-1", Email: "admin@evdashboard.com", Name: "Admin", PasswordHash: "x", Role: models.RoleAdmin, CreatedAt: fixedNow}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	stationRepo := repository.NewStationRepository(conn, db.SQLite)
	sessionRepo := repository.NewSessionRepository(conn, db.SQLite)
	st := &stack{
		conn:     conn,
		stations: NewStationsService(stationRepo, sessionRepo, zap.NewNop()),
		sessions: NewSessionsService(sessionRepo, stationRepo, zap.NewNop()),
		userID:   user.ID,
	}
	tick := fixedNow
	clock := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	st.stations.now = clock
	st.sessions.now = clock
	return st
}

func (s *stack) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := s.conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func ptr[T any](v T) *T { return &v }

func validStation() StationInput {
	return StationInput{
		Name:          ptr("Sandton City Hub"),
		Location:      ptr("Sandton, Johannesburg"),
		Power:         ptr("150 kW"),
		ConnectorType: ptr("CCS"),
	}
}

func (s *stack) addStation(t *testing.T) *models.Station {
	t.Helper()
	st, err := s.stations.Create(context.Background(), validStation())
	if err != nil {
		t.Fatalf("create station: %v", err)
	}
	return st
}

func assertValidation(t *testing.T, err error) {
	t.Helper()
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStationCreateDefaults(t *testing.T) {
	s := newStack(t)
	st := s.addStation(t)

	if st.ID == "" || st.Status != models.StationActive || st.Uptime != 100 {
		t.Fatalf("unexpected defaults %+v", st)
	}

	got, err := s.stations.Get(context.Background(), st.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != st.Name || got.Power != "150 kW" || got.ConnectorType != "CCS" || got.Latitude != nil {
		t.Fatalf("round trip mismatch %+v", got)
	}
	if !got.CreatedAt.Equal(st.CreatedAt) {
		t.Fatalf("expected createdAt %v, got %v", st.CreatedAt, got.CreatedAt)
	}
}

func TestStationCreateValidation(t *testing.T) {
	s := newStack(t)
	cases := map[string]func(*StationInput){
		"missing name":      func(in *StationInput) { in.Name = nil },
		"blank location":    func(in *StationInput) { in.Location = ptr("  ") },
		"missing power":     func(in *StationInput) { in.Power = nil },
		"missing connector": func(in *StationInput) { in.ConnectorType = ptr("") },
		"bad status":        func(in *StationInput) { in.Status = ptr(models.StationStatus("BROKEN")) },
		"uptime too high":   func(in *StationInput) { in.Uptime = ptr(100.5) },
		"uptime negative":   func(in *StationInput) { in.Uptime = ptr(-1.0) },
		"latitude":          func(in *StationInput) { in.Latitude = ptr(91.0) },
		"longitude":         func(in *StationInput) { in.Longitude = ptr(-181.0) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validStation()
			mutate(&in)
			_, err := s.stations.Create(context.Background(), in)
			assertValidation(t, err)
		})
	}
	if n := s.count(t, "stations"); n != 0 {
		t.Fatalf("expected no stations stored, got %d", n)
	}
}

func TestStationPartialUpdate(t *testing.T) {
	s := newStack(t)
	st := s.addStation(t)

	updated, err := s.stations.Update(context.Background(), st.ID, StationInput{
		Status:   ptr(models.StationMaintenance),
		Uptime:   ptr(87.5),
		Latitude: ptr(-26.1076),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != st.Name || updated.Status != models.StationMaintenance || updated.Uptime != 87.5 {
		t.Fatalf("unexpected update %+v", updated)
	}
	if !updated.UpdatedAt.After(st.UpdatedAt) {
		t.Fatalf("expected updatedAt to advance")
	}

	if _, err := s.stations.Update(context.Background(), "missing", StationInput{}); !errors.Is(err, ErrStationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err = s.stations.Update(context.Background(), st.ID, StationInput{Name: ptr("")})
	assertValidation(t, err)
}

func TestStationDeleteCascades(t *testing.T) {
	s := newStack(t)
	st := s.addStation(t)
	for _, code := range []string{"S-001", "S-002"} {
		if _, err := s.sessions.Create(context.Background(), s.userID, CreateSessionInput{SessionCode: code, StationID: st.ID, StartTime: ptr(fixedNow)}); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}

	if err := s.stations.Delete(context.Background(), st.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := s.count(t, "charging_sessions"); n != 0 {
		t.Fatalf("expected sessions removed, got %d", n)
	}
	if err := s.stations.Delete(context.Background(), st.ID); !errors.Is(err, ErrStationNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestStationDetailLimitsSessions(t *testing.T) {
	s := newStack(t)
	st := s.addStation(t)
	for i := 0; i < 12; i++ {
		code := fmt.Sprintf("S-%03d", i)
		if _, err := s.sessions.Create(context.Background(), s.userID, CreateSessionInput{SessionCode: code, StationID: st.ID, StartTime: ptr(fixedNow)}); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}
	got, err := s.stations.Get(context.Background(), st.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SessionCount != 12 || len(got.Sessions) != 10 {
		t.Fatalf("expected 12 total and 10 attached, got %d/%d", got.SessionCount, len(got.Sessions))
	}
	if got.Sessions[0].SessionCode != "S-011" {
		t.Fatalf("expected newest first, got %s", got.Sessions[0].SessionCode)
	}
}

func TestSessionCreate(t *testing.T) {
	s := newStack(t)
	st := s.addStation(t)

	session, err := s.sessions.Create(context.Background(), s.userID, CreateSessionInput{
		SessionCode: "S-001",
		StationID:   st.ID,
		StartTime:   ptr(fixedNow.Add(-time.Hour)),
		EnergyKWh:   ptr(12.5),
		Cost:        ptr(87.5),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if session.Status != models.SessionCharging || session.UserID != s.userID {
		t.Fatalf("unexpected session %+v", session)
	}
	if session.Station == nil || session.Station.Name != st.Name || session.User == nil || session.User.Email != "admin@evdashboard.com" {
		t.Fatalf("expected joins, got %+v %+v", session.Station, session.User)
	}
	if session.EndTime != nil || session.Duration != nil {
		t.Fatalf("expected open session, got end=%v duration=%v", session.EndTime, session.Duration)
	}
}

func TestSessionCreateUnknownStation(t *testing.T) {
	s := newStack(t)
	_, err := s.sessions.Create(context.Background(), s.userID, CreateSessionInput{SessionCode: "S-001", StationID: "nope", StartTime: ptr(fixedNow)})
	if !errors.Is(err, ErrStationNotFound) {
		t.Fatalf("expected station not found, got %v", err)
	}
	if n := s.count(t, "charging_sessions"); n != 0 {
		t.Fatalf("expected no session stored, got %d", n)
	}
}

func TestSessionCreateDuplicateCode(t *testing.T) {
	s := newStack(t)
	st := s.addStation(t)
	in := CreateSessionInput{SessionCode: "S-001", StationID: st.ID, StartTime: ptr(fixedNow)}
	if _, err := s.sessions.Create(context.Background(), s.userID, in); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.sessions.Create(context.Background(), s.userID, in); !errors.Is(err, ErrDuplicateSessionCode) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if n := s.count(t, "charging_sessions"); n != 1 {
		t.Fatalf("expected a single session, got %d", n)
	}
}

func TestSessionCreateValidation(t *testing.T) {
	s := newStack(t)
	st := s.addStation(t)
	cases := map[string]CreateSessionInput{
		"missing code":     {StationID: st.ID, StartTime: ptr(fixedNow)},
		"missing station":  {SessionCode: "S-1", StartTime: ptr(fixedNow)},
		"missing start":    {SessionCode: "S-1", StationID: st.ID},
		"negative energy":  {SessionCode: "S-1", StationID: st.ID, StartTime: ptr(fixedNow), EnergyKWh: ptr(-1.0)},
		"negative cost":    {SessionCode: "S-1", StationID: st.ID, StartTime: ptr(fixedNow), Cost: ptr(-0.5)},
		"bad status":       {SessionCode: "S-1", StationID: st.ID, StartTime: ptr(fixedNow), Status: ptr(models.SessionStatus("PAUSED"))},
		"end before start": {SessionCode: "S-1", StationID: st.ID, StartTime: ptr(fixedNow), EndTime: ptr(fixedNow.Add(-time.Minute))},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.sessions.Create(context.Background(), s.userID, in)
			assertValidation(t, err)
		})
	}
}

func TestSessionUpdateDerivesDuration(t *testing.T) {
	s := newStack(t)
	st := s.addStation(t)
	created, err := s.sessions.Create(context.Background(), s.userID, CreateSessionInput{SessionCode: "S-001", StationID: st.ID, StartTime: ptr(fixedNow)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := s.sessions.Update(context.Background(), created.ID, UpdateSessionInput{
		EndTime:   ptr(fixedNow.Add(45*time.Minute + 30*time.Second)),
		EnergyKWh: ptr(30.0),
		Cost:      ptr(210.0),
		Status:    ptr(models.SessionCompleted),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Duration == nil || *updated.Duration != 45 {
		t.Fatalf("expected derived duration 45, got %v", updated.Duration)
	}
	if updated.Status != models.SessionCompleted || updated.EnergyKWh != 30 || updated.Cost != 210 {
		t.Fatalf("unexpected update %+v", updated)
	}

	explicit, err := s.sessions.Update(context.Background(), created.ID, UpdateSessionInput{Duration: ptr(50)})
	if err != nil {
		t.Fatalf("update duration: %v", err)
	}
	if *explicit.Duration != 50 || explicit.EndTime == nil {
		t.Fatalf("expected explicit duration with end time kept, got %+v", explicit)
	}

	if _, err := s.sessions.Update(context.Background(), "missing", UpdateSessionInput{}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSessionDelete(t *testing.T) {
	s := newStack(t)
	st := s.addStation(t)
	created, err := s.sessions.Create(context.Background(), s.userID, CreateSessionInput{SessionCode: "S-001", StationID: st.ID, StartTime: ptr(fixedNow)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.sessions.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.sessions.Get(context.Background(), created.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.sessions.Delete(context.Background(), created.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
