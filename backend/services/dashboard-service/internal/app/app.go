package app

import (
	"context"
	"database/sql"
	"fmt"
	"net"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libredis "evdash/backend/libs/redis"
	"evdash/backend/services/dashboard-service/internal/analytics"
	appconfig "evdash/backend/services/dashboard-service/internal/config"
	"evdash/backend/services/dashboard-service/internal/db"
	httpserver "evdash/backend/services/dashboard-service/internal/http"
	"evdash/backend/services/dashboard-service/internal/http/handlers"
	"evdash/backend/services/dashboard-service/internal/http/middleware"
	"evdash/backend/services/dashboard-service/internal/identity"
	"evdash/backend/services/dashboard-service/internal/password"
	"evdash/backend/services/dashboard-service/internal/rbac"
	"evdash/backend/services/dashboard-service/internal/repository"
	"evdash/backend/services/dashboard-service/internal/seed"
	"evdash/backend/services/dashboard-service/internal/service"
)

// App wires dependencies for the dashboard service.
type App struct {
	server  *httpserver.Server
	db      *sql.DB
	dialect db.Dialect
	redis   *goredis.Client
	seeder  *seed.Seeder
	logger  *zap.Logger
}

// New builds application graph.
func New(cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	dialect := db.DialectFor(cfg.Database.Driver)

	a := &App{db: sqlDB, dialect: dialect, logger: logger}

	var revocations identity.Revocations
	if cfg.RevocationEnabled() {
		client, err := libredis.NewRedisClient(libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = client
		revocations = identity.NewRedisRevocations(client)
	} else {
		logger.Warn("redis not configured, logout will not revoke tokens")
	}

	userRepo := repository.NewUserRepository(sqlDB, dialect)
	stationRepo := repository.NewStationRepository(sqlDB, dialect)
	sessionRepo := repository.NewSessionRepository(sqlDB, dialect)

	hasher := password.NewBcryptHasher(0)
	tokens := identity.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())

	authSvc := service.NewAuthService(userRepo, hasher, tokens, revocations, logger)
	stationsSvc := service.NewStationsService(stationRepo, sessionRepo, logger)
	sessionsSvc := service.NewSessionsService(sessionRepo, stationRepo, logger)
	dashboardSvc := service.NewDashboardService(stationRepo, sessionRepo, analytics.NewEngine(nil, loc))

	gate := rbac.NewGate(identity.NewJWTResolver(tokens, revocations, cfg.Cookie.Name), logger)
	router := httpserver.NewRouter(httpserver.RouterDeps{
		Gate:              gate,
		AuthHandlers:      handlers.NewAuthHandlers(authSvc, handlers.CookieOptions{Name: cfg.Cookie.Name, Secure: cfg.Cookie.Secure}, logger),
		StationsHandlers:  handlers.NewStationsHandlers(stationsSvc, logger),
		SessionsHandlers:  handlers.NewSessionsHandlers(sessionsSvc, logger),
		DashboardHandlers: handlers.NewDashboardHandlers(dashboardSvc, logger),
		HealthHandler:     handlers.NewHealthHandler(),
	})

	a.server = httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
	)
	a.seeder = seed.New(userRepo, stationRepo, sessionRepo, hasher, loc, logger)
	return a, nil
}

// Migrate creates the schema if it does not exist yet.
func (a *App) Migrate(ctx context.Context) error {
	if err := db.Migrate(ctx, a.db, a.dialect); err != nil {
		return err
	}
	a.logger.Info("schema migrated", zap.String("dialect", string(a.dialect)))
	return nil
}

// Seed loads the demo dataset.
func (a *App) Seed(ctx context.Context) error {
	res, err := a.seeder.Run(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("seed finished",
		zap.Int("users", res.Users),
		zap.Int("stations", res.Stations),
		zap.Int("sessions", res.Sessions),
	)
	return nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	return a.server.Serve(ctx, ln)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
