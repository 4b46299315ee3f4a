package db

import (
	"context"
	"database/sql"
	"fmt"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
    id text PRIMARY KEY,
    email text NOT NULL,
    name text NOT NULL DEFAULT '',
    password_hash text NOT NULL,
    role text NOT NULL CHECK (role IN ('ADMIN', 'USER')),
    created_at timestamptz NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique ON users (email);

CREATE TABLE IF NOT EXISTS stations (
    id text PRIMARY KEY,
    name text NOT NULL,
    location text NOT NULL,
    power text NOT NULL,
    connector_type text NOT NULL,
    status text NOT NULL CHECK (status IN ('ACTIVE', 'OFFLINE', 'MAINTENANCE')),
    uptime double precision NOT NULL DEFAULT 100,
    latitude double precision,
    longitude double precision,
    created_at timestamptz NOT NULL,
    updated_at timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS charging_sessions (
    id text PRIMARY KEY,
    session_code text NOT NULL,
    station_id text NOT NULL REFERENCES stations(id) ON DELETE CASCADE,
    user_id text NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    start_time timestamptz NOT NULL,
    end_time timestamptz,
    duration_minutes integer,
    energy_kwh double precision NOT NULL DEFAULT 0 CHECK (energy_kwh >= 0),
    cost double precision NOT NULL DEFAULT 0 CHECK (cost >= 0),
    status text NOT NULL CHECK (status IN ('CHARGING', 'COMPLETED', 'FAILED')),
    created_at timestamptz NOT NULL,
    updated_at timestamptz NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS charging_sessions_code_unique ON charging_sessions (session_code);
CREATE INDEX IF NOT EXISTS charging_sessions_station_idx ON charging_sessions (station_id);
CREATE INDEX IF NOT EXISTS charging_sessions_created_idx ON charging_sessions (created_at DESC);
`

// SQLite stores timestamps as text; DATETIME makes the driver parse them back into time.Time.
var sqliteSchema = []string{
	`PRAGMA foreign_keys = ON`,
	`CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('ADMIN', 'USER')),
    created_at DATETIME NOT NULL
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique ON users (email)`,
	`CREATE TABLE IF NOT EXISTS stations (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    location TEXT NOT NULL,
    power TEXT NOT NULL,
    connector_type TEXT NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('ACTIVE', 'OFFLINE', 'MAINTENANCE')),
    uptime REAL NOT NULL DEFAULT 100,
    latitude REAL,
    longitude REAL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS charging_sessions (
    id TEXT PRIMARY KEY,
    session_code TEXT NOT NULL,
    station_id TEXT NOT NULL REFERENCES stations(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    start_time DATETIME NOT NULL,
    end_time DATETIME,
    duration_minutes INTEGER,
    energy_kwh REAL NOT NULL DEFAULT 0 CHECK (energy_kwh >= 0),
    cost REAL NOT NULL DEFAULT 0 CHECK (cost >= 0),
    status TEXT NOT NULL CHECK (status IN ('CHARGING', 'COMPLETED', 'FAILED')),
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS charging_sessions_code_unique ON charging_sessions (session_code)`,
	`CREATE INDEX IF NOT EXISTS charging_sessions_station_idx ON charging_sessions (station_id)`,
	`CREATE INDEX IF NOT EXISTS charging_sessions_created_idx ON charging_sessions (created_at)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, conn *sql.DB, dialect Dialect) error {
	switch dialect {
	case Postgres:
		if _, err := conn.ExecContext(ctx, postgresSchema); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	case SQLite:
		for _, stmt := range sqliteSchema {
			if _, err := conn.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
	default:
		return fmt.Errorf("migrate: unknown dialect %q", dialect)
	}
	return nil
}
