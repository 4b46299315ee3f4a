package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "evdash/backend/libs/config"
	libdb "evdash/backend/libs/db"
)

// Config represents service configuration loaded from .env, YAML and env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"DASHBOARD_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		Driver string `yaml:"driver" env:"DASHBOARD_DB_DRIVER"`
		DSN    string `yaml:"dsn" env:"DASHBOARD_DB_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"DASHBOARD_REDIS_ADDR"`
		Password string `yaml:"password" env:"DASHBOARD_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"DASHBOARD_REDIS_DB"`
	} `yaml:"redis"`
	JWT struct {
		Secret           string `yaml:"secret" env:"DASHBOARD_JWT_SECRET"`
		ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"DASHBOARD_JWT_EXPIRES_MINUTES"`
	} `yaml:"jwt"`
	Cookie struct {
		Name   string `yaml:"name" env:"DASHBOARD_COOKIE_NAME"`
		Secure bool   `yaml:"secure" env:"DASHBOARD_COOKIE_SECURE"`
	} `yaml:"cookie"`
	Dashboard struct {
		Timezone string `yaml:"timezone" env:"DASHBOARD_TIMEZONE"`
	} `yaml:"dashboard"`
	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"log"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Database.Driver = libdb.DriverPostgres
	cfg.JWT.ExpiresInMinutes = 60
	cfg.Cookie.Name = "evdash_session"

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	switch cfg.Database.Driver {
	case libdb.DriverPostgres, libdb.DriverSQLite:
	default:
		return nil, fmt.Errorf("config: unsupported database driver %q", cfg.Database.Driver)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database DSN is required")
	}
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("config: jwt secret is required")
	}
	if cfg.JWT.ExpiresInMinutes <= 0 {
		cfg.JWT.ExpiresInMinutes = 60
	}
	if strings.TrimSpace(cfg.Cookie.Name) == "" {
		cfg.Cookie.Name = "evdash_session"
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	if c.JWT.ExpiresInMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.JWT.ExpiresInMinutes) * time.Minute
}

// Location resolves the timezone used for calendar-day bucketing.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Dashboard.Timezone)
	if tz == "" || tz == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", tz, err)
	}
	return loc, nil
}

// RevocationEnabled reports whether a redis address was configured.
func (c *Config) RevocationEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}
