package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"evdash/backend/services/dashboard-service/internal/models"
)

const cookieName = "evdash_session"

var admin = &models.User{ID: "user-0001", Email: "admin@evdashboard.com", Name: "Admin", Role: models.RoleAdmin}

func newTokens(now time.Time) *TokenService {
	ts := NewTokenService("test-secret", time.Hour)
	ts.now = func() time.Time { return now }
	return ts
}

func newRevocations(t *testing.T) (*RedisRevocations, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisRevocations(client), srv
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Now()
	ts := newTokens(now)

	token, expiresAt, err := ts.GenerateToken(admin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !expiresAt.After(now) {
		t.Fatalf("expected expiry in the future, got %s", expiresAt)
	}

	claims, err := ts.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != admin.ID || claims.Role != models.RoleAdmin || claims.Email != admin.Email {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ID == "" {
		t.Fatalf("expected token id")
	}
}

func TestTokenExpired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	token, _, err := newTokens(issued).GenerateToken(admin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := newTokens(time.Now()).ValidateToken(token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenService("a", time.Hour).GenerateToken(admin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewTokenService("b", time.Hour).ValidateToken(token); err == nil {
		t.Fatalf("expected signature failure")
	}
}

func TestGenerateTokenRequiresUser(t *testing.T) {
	if _, _, err := NewTokenService("a", time.Hour).GenerateToken(&models.User{}); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}

func TestResolverBearerAndCookie(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)
	token, _, err := ts.GenerateToken(admin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	resolver := NewJWTResolver(ts, nil, cookieName)

	req := httptest.NewRequest(http.MethodGet, "/api/stations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	id, err := resolver.Resolve(req)
	if err != nil || id == nil {
		t.Fatalf("expected identity from bearer, got %v %v", id, err)
	}
	if id.ID != admin.ID || id.Role != models.RoleAdmin || id.Name != "Admin" {
		t.Fatalf("unexpected identity %+v", id)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/stations", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	id, err = resolver.Resolve(req)
	if err != nil || id == nil {
		t.Fatalf("expected identity from cookie, got %v %v", id, err)
	}
}

func TestResolverAnonymous(t *testing.T) {
	resolver := NewJWTResolver(NewTokenService("test-secret", time.Hour), nil, cookieName)

	cases := map[string]func(*http.Request){
		"no credentials": func(*http.Request) {},
		"garbage token":  func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
		"wrong scheme":   func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			mutate(req)
			id, err := resolver.Resolve(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != nil {
				t.Fatalf("expected nil identity, got %+v", id)
			}
		})
	}
}

func TestResolverUnknownRole(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)
	token, _, err := ts.GenerateToken(&models.User{ID: "x", Role: "SUPERUSER"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	id, err := NewJWTResolver(ts, nil, cookieName).Resolve(req)
	if err != nil || id != nil {
		t.Fatalf("expected anonymous for unknown role, got %v %v", id, err)
	}
}

func TestResolverRevokedToken(t *testing.T) {
	revocations, _ := newRevocations(t)
	ts := NewTokenService("test-secret", time.Hour)
	token, expiresAt, err := ts.GenerateToken(admin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	resolver := NewJWTResolver(ts, revocations, cookieName)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	id, err := resolver.Resolve(req)
	if err != nil || id == nil {
		t.Fatalf("expected identity before revoke, got %v %v", id, err)
	}

	if err := revocations.Revoke(context.Background(), id.TokenID, expiresAt); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	id, err = resolver.Resolve(req)
	if err != nil || id != nil {
		t.Fatalf("expected anonymous after revoke, got %v %v", id, err)
	}
}

func TestResolverRevocationBackendDown(t *testing.T) {
	revocations, srv := newRevocations(t)
	ts := NewTokenService("test-secret", time.Hour)
	token, _, err := ts.GenerateToken(admin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	srv.Close()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if _, err := NewJWTResolver(ts, revocations, cookieName).Resolve(req); err == nil {
		t.Fatalf("expected error when redis is unavailable")
	}
}

func TestRevokeTTL(t *testing.T) {
	revocations, srv := newRevocations(t)
	now := time.Now()
	revocations.now = func() time.Time { return now }

	if err := revocations.Revoke(context.Background(), "jti-1", now.Add(30*time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if ttl := srv.TTL("auth:revoked:jti-1"); ttl != 30*time.Minute {
		t.Fatalf("expected 30m ttl, got %s", ttl)
	}

	if err := revocations.Revoke(context.Background(), "jti-2", now.Add(-time.Minute)); err != nil {
		t.Fatalf("revoke expired: %v", err)
	}
	if srv.Exists("auth:revoked:jti-2") {
		t.Fatalf("expired token should not be stored")
	}
	if err := revocations.Revoke(context.Background(), "", now.Add(time.Minute)); err == nil {
		t.Fatalf("expected error for empty token id")
	}
}
