package repository

import (
	"context"
	"database/sql"
	"errors"

	"evdash/backend/services/dashboard-service/internal/db"
	"evdash/backend/services/dashboard-service/internal/models"
)

const sessionSelect = `
	SELECT cs.id, cs.session_code, cs.station_id, cs.user_id, cs.start_time, cs.end_time,
	       cs.duration_minutes, cs.energy_kwh, cs.cost, cs.status, cs.created_at, cs.updated_at,
	       st.name, st.location, COALESCE(u.name, ''), COALESCE(u.email, '')
	FROM charging_sessions cs
	JOIN stations st ON st.id = cs.station_id
	LEFT JOIN users u ON u.id = cs.user_id`

// SessionRepository handles persistence of charging sessions.
type SessionRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

// NewSessionRepository returns repository.
func NewSessionRepository(conn *sql.DB, dialect db.Dialect) *SessionRepository {
	return &SessionRepository{db: conn, dialect: dialect}
}

// Create inserts a session. A taken session code yields ErrDuplicateSessionCode,
// a missing station ErrStationNotFound.
func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	query := r.dialect.Rebind(`
		INSERT INTO charging_sessions (id, session_code, station_id, user_id, start_time, end_time,
			duration_minutes, energy_kwh, cost, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.SessionCode,
		s.StationID,
		s.UserID,
		s.StartTime.UTC(),
		nullTime(s.EndTime),
		nullInt(s.Duration),
		s.EnergyKWh,
		s.Cost,
		string(s.Status),
		s.CreatedAt.UTC(),
		s.UpdatedAt.UTC(),
	)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return ErrDuplicateSessionCode
	case isForeignKeyViolation(err):
		return ErrStationNotFound
	default:
		return err
	}
}

// Get returns one session with station and user joins.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx, r.dialect.Rebind(sessionSelect+` WHERE cs.id = ?`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

// CodeExists reports whether a session code is already taken.
func (r *SessionRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT 1 FROM charging_sessions WHERE session_code = ?`), code).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns every session, most recently created first.
func (r *SessionRepository) List(ctx context.Context) ([]models.Session, error) {
	return r.query(ctx, sessionSelect+` ORDER BY cs.created_at DESC, cs.id DESC`)
}

// ListByStation returns the latest sessions of a station. limit <= 0 means all.
func (r *SessionRepository) ListByStation(ctx context.Context, stationID string, limit int) ([]models.Session, error) {
	if limit <= 0 {
		return r.query(ctx, r.dialect.Rebind(sessionSelect+` WHERE cs.station_id = ? ORDER BY cs.created_at DESC, cs.id DESC`), stationID)
	}
	return r.query(ctx, r.dialect.Rebind(sessionSelect+` WHERE cs.station_id = ? ORDER BY cs.created_at DESC, cs.id DESC LIMIT ?`), stationID, limit)
}

// Update overwrites the progress columns of a session.
func (r *SessionRepository) Update(ctx context.Context, s *models.Session) error {
	query := r.dialect.Rebind(`
		UPDATE charging_sessions
		SET end_time = ?,
		    duration_minutes = ?,
		    energy_kwh = ?,
		    cost = ?,
		    status = ?,
		    updated_at = ?
		WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query,
		nullTime(s.EndTime),
		nullInt(s.Duration),
		s.EnergyKWh,
		s.Cost,
		string(s.Status),
		s.UpdatedAt.UTC(),
		s.ID,
	)
	if err != nil {
		return err
	}
	return expectAffected(result, ErrSessionNotFound)
}

// Delete removes a single session.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM charging_sessions WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return expectAffected(result, ErrSessionNotFound)
}

func (r *SessionRepository) query(ctx context.Context, query string, args ...any) ([]models.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func scanSession(row scanner) (*models.Session, error) {
	var (
		s        models.Session
		status   string
		endTime  sql.NullTime
		duration sql.NullInt64
		station  models.StationRef
		user     models.UserRef
	)
	if err := row.Scan(
		&s.ID,
		&s.SessionCode,
		&s.StationID,
		&s.UserID,
		&s.StartTime,
		&endTime,
		&duration,
		&s.EnergyKWh,
		&s.Cost,
		&status,
		&s.CreatedAt,
		&s.UpdatedAt,
		&station.Name,
		&station.Location,
		&user.Name,
		&user.Email,
	); err != nil {
		return nil, err
	}
	s.Status = models.SessionStatus(status)
	s.EndTime = timePtr(endTime)
	s.Duration = intPtr(duration)
	station.ID = s.StationID
	user.ID = s.UserID
	s.Station = &station
	s.User = &user
	return &s, nil
}
