package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	appconfig "evdash/backend/services/dashboard-service/internal/config"
)

func testConfig(t *testing.T, redisAddr string) *appconfig.Config {
	t.Helper()
	cfg := &appconfig.Config{}
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "file::memory:"
	cfg.Redis.Addr = redisAddr
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresInMinutes = 5
	cfg.Cookie.Name = "evdash_session"
	cfg.Dashboard.Timezone = "UTC"
	return cfg
}

func TestAppServesSeededData(t *testing.T) {
	mr := miniredis.RunT(t)
	application, err := New(testConfig(t, mr.Addr()), zap.NewNop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer application.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := application.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := application.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- application.Serve(ctx, ln) }()
	base := "http://" + ln.Addr().String()
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Post(base+"/api/auth/login", "application/json",
		strings.NewReader(`{"email":"user@evdashboard.com","password":"password123"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || login.Token == "" {
		t.Fatalf("login failed with %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, base+"/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	var dash struct {
		Stats struct {
			TotalSessions  int     `json:"totalSessions"`
			TotalStations  int     `json:"totalStations"`
			ActiveStations int     `json:"activeStations"`
			Revenue        float64 `json:"revenue"`
		} `json:"stats"`
		EnergyByStation []struct {
			Station string  `json:"station"`
			KWh     float64 `json:"kwh"`
		} `json:"energyByStation"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	resp.Body.Close()

	if dash.Stats.TotalSessions != 7 || dash.Stats.TotalStations != 6 || dash.Stats.ActiveStations != 4 || dash.Stats.Revenue != 546 {
		t.Fatalf("unexpected stats %+v", dash.Stats)
	}
	if len(dash.EnergyByStation) != 5 || dash.EnergyByStation[0].Station != "Station A - Sandton City" || dash.EnergyByStation[0].KWh != 31 {
		t.Fatalf("unexpected ranking %+v", dash.EnergyByStation)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop")
	}
}

func TestNewFailsWithoutRedis(t *testing.T) {
	_, err := New(testConfig(t, "127.0.0.1:1"), zap.NewNop())
	if err == nil {
		t.Fatalf("expected redis connection error")
	}
}
