package models

import "time"

// StationStatus is the operational state of a charger.
type StationStatus string

const (
	StationActive      StationStatus = "ACTIVE"
	StationOffline     StationStatus = "OFFLINE"
	StationMaintenance StationStatus = "MAINTENANCE"
)

// Valid reports whether s is one of the known statuses.
func (s StationStatus) Valid() bool {
	switch s {
	case StationActive, StationOffline, StationMaintenance:
		return true
	}
	return false
}

// Station is a physical charging point.
type Station struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Location      string        `json:"location"`
	Power         string        `json:"power"`
	ConnectorType string        `json:"connectorType"`
	Status        StationStatus `json:"status"`
	Uptime        float64       `json:"uptime"`
	Latitude      *float64      `json:"latitude"`
	Longitude     *float64      `json:"longitude"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	// Read-side fields, filled by list/detail queries.
	SessionCount int       `json:"sessionCount"`
	Sessions     []Session `json:"sessions,omitempty"`
}
