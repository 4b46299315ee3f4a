package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"evdash/backend/services/dashboard-service/internal/db"
	"evdash/backend/services/dashboard-service/internal/models"
)

const stationColumns = `
	s.id, s.name, s.location, s.power, s.connector_type, s.status, s.uptime,
	s.latitude, s.longitude, s.created_at, s.updated_at,
	(SELECT COUNT(*) FROM charging_sessions cs WHERE cs.station_id = s.id) AS session_count`

// StationRepository persists stations.
type StationRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

// NewStationRepository returns repository.
func NewStationRepository(conn *sql.DB, dialect db.Dialect) *StationRepository {
	return &StationRepository{db: conn, dialect: dialect}
}

// Create inserts a station. ID and timestamps must be set by the caller.
func (r *StationRepository) Create(ctx context.Context, st *models.Station) error {
	query := r.dialect.Rebind(`
		INSERT INTO stations (id, name, location, power, connector_type, status, uptime, latitude, longitude, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		st.ID,
		st.Name,
		st.Location,
		st.Power,
		st.ConnectorType,
		string(st.Status),
		st.Uptime,
		nullFloat(st.Latitude),
		nullFloat(st.Longitude),
		st.CreatedAt.UTC(),
		st.UpdatedAt.UTC(),
	)
	return err
}

// Get returns a station with its session count.
func (r *StationRepository) Get(ctx context.Context, id string) (*models.Station, error) {
	query := r.dialect.Rebind(`SELECT ` + stationColumns + ` FROM stations s WHERE s.id = ?`)
	st, err := scanStation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return st, nil
}

// Exists reports whether a station with id is present.
func (r *StationRepository) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT 1 FROM stations WHERE id = ?`), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns all stations, newest first.
func (r *StationRepository) List(ctx context.Context) ([]models.Station, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+stationColumns+` FROM stations s ORDER BY s.created_at DESC, s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := make([]models.Station, 0)
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}

// Update overwrites every mutable column of the station.
func (r *StationRepository) Update(ctx context.Context, st *models.Station) error {
	query := r.dialect.Rebind(`
		UPDATE stations
		SET name = ?,
		    location = ?,
		    power = ?,
		    connector_type = ?,
		    status = ?,
		    uptime = ?,
		    latitude = ?,
		    longitude = ?,
		    updated_at = ?
		WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query,
		st.Name,
		st.Location,
		st.Power,
		st.ConnectorType,
		string(st.Status),
		st.Uptime,
		nullFloat(st.Latitude),
		nullFloat(st.Longitude),
		st.UpdatedAt.UTC(),
		st.ID,
	)
	if err != nil {
		return err
	}
	return expectAffected(result, ErrStationNotFound)
}

// Delete removes the station and every session recorded at it.
func (r *StationRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM charging_sessions WHERE station_id = ?`), id); err != nil {
		return fmt.Errorf("delete station sessions: %w", err)
	}
	result, err := tx.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM stations WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if err := expectAffected(result, ErrStationNotFound); err != nil {
		return err
	}
	return tx.Commit()
}

func scanStation(row scanner) (*models.Station, error) {
	var (
		st       models.Station
		status   string
		lat, lng sql.NullFloat64
	)
	if err := row.Scan(
		&st.ID,
		&st.Name,
		&st.Location,
		&st.Power,
		&st.ConnectorType,
		&status,
		&st.Uptime,
		&lat,
		&lng,
		&st.CreatedAt,
		&st.UpdatedAt,
		&st.SessionCount,
	); err != nil {
		return nil, err
	}
	st.Status = models.StationStatus(status)
	st.Latitude = floatPtr(lat)
	st.Longitude = floatPtr(lng)
	return &st, nil
}

func expectAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
