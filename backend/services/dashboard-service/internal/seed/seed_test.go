package seed

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"evdash/backend/services/dashboard-service/internal/db"
	"evdash/backend/services/dashboard-service/internal/models"
	"evdash/backend/services/dashboard-service/internal/password"
	"evdash/backend/services/dashboard-service/internal/repository"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.Migrate(ctx, conn, db.SQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepository(conn, db.SQLite)
	stations := repository.NewStationRepository(conn, db.SQLite)
	sessions := repository.NewSessionRepository(conn, db.SQLite)
	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	seeder := New(users, stations, sessions, hasher, time.UTC, zap.NewNop())

	res, err := seeder.Run(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if res != (Result{Users: 2, Stations: 6, Sessions: 7}) {
		t.Fatalf("unexpected first run %+v", res)
	}

	res, err = seeder.Run(ctx)
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if res != (Result{}) {
		t.Fatalf("expected nothing inserted on second run, got %+v", res)
	}

	admin, err := users.GetByEmail(ctx, "admin@evdashboard.com")
	if err != nil {
		t.Fatalf("admin: %v", err)
	}
	if admin.Role != models.RoleAdmin || hasher.Compare(admin.PasswordHash, DemoPassword) != nil {
		t.Fatalf("unexpected admin %+v", admin)
	}

	all, err := sessions.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var s001 *models.Session
	for i := range all {
		if all[i].SessionCode == "S-001" {
			s001 = &all[i]
		}
	}
	if s001 == nil || s001.StationName() != "Station A - Sandton City" || *s001.Duration != 40 {
		t.Fatalf("unexpected S-001 %+v", s001)
	}
	if !s001.StartTime.Equal(time.Date(2024, 11, 16, 12, 5, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", s001.StartTime)
	}
}
