package models

import "time"

// SessionStatus tracks a charging event's progress.
type SessionStatus string

const (
	SessionCharging  SessionStatus = "CHARGING"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionFailed    SessionStatus = "FAILED"
)

// Valid reports whether s is one of the known statuses.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionCharging, SessionCompleted, SessionFailed:
		return true
	}
	return false
}

// Session is one charging event at a station.
type Session struct {
	ID          string        `json:"id"`
	SessionCode string        `json:"sessionId"`
	StationID   string        `json:"stationId"`
	UserID      string        `json:"userId"`
	StartTime   time.Time     `json:"startTime"`
	EndTime     *time.Time    `json:"endTime"`
	Duration    *int          `json:"duration"`
	EnergyKWh   float64       `json:"energyKwh"`
	Cost        float64       `json:"cost"`
	Status      SessionStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	Station *StationRef `json:"station,omitempty"`
	User    *UserRef    `json:"user,omitempty"`
}

// StationRef is the station projection joined onto session reads.
type StationRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// UserRef is the user projection joined onto session reads.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StationName returns the joined station name, or "" when the join is absent.
func (s Session) StationName() string {
	if s.Station == nil {
		return ""
	}
	return s.Station.Name
}
