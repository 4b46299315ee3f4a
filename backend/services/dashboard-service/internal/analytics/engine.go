// Package analytics derives dashboard views from raw station and session records.
// Everything here is pure: the only inputs are the records, the clock and the
// calendar location.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/jinzhu/now"

	"evdash/backend/services/dashboard-service/internal/models"
)

const (
	topStations    = 5
	seriesDays     = 7
	recentSessions = 4
)

// Fixed chart colors per station status bucket.
const (
	colorActive      = "#10b981"
	colorIdle        = "#64748b"
	colorMaintenance = "#f59e0b"
)

// Stats are all-time counters.
type Stats struct {
	TotalSessions   int     `json:"totalSessions"`
	ActiveStations  int     `json:"activeStations"`
	TotalStations   int     `json:"totalStations"`
	EnergyDelivered float64 `json:"energyDelivered"`
	Revenue         float64 `json:"revenue"`
}

// StatusSlice is one bucket of the station status distribution.
type StatusSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// StationEnergy is one row of the energy ranking.
type StationEnergy struct {
	StationID  string  `json:"stationId"`
	Station    string  `json:"station"`
	KWh        float64 `json:"kwh"`
	Efficiency float64 `json:"efficiency"`
}

// DayBucket holds session volume for one calendar day.
type DayBucket struct {
	Date     string  `json:"date"`
	Day      string  `json:"day"`
	Sessions int     `json:"sessions"`
	Energy   float64 `json:"energy"`
}

// Activity is a display row of the recent activity feed.
type Activity struct {
	ID      string `json:"id"`
	Station string `json:"station"`
	User    string `json:"user"`
	Time    string `json:"time"`
	Status  string `json:"status"`
}

// Dashboard is the full aggregate returned to the presentation layer.
type Dashboard struct {
	Stats           Stats           `json:"stats"`
	StatusData      []StatusSlice   `json:"statusData"`
	EnergyByStation []StationEnergy `json:"energyByStation"`
	SessionData     []DayBucket     `json:"sessionData"`
	RecentActivity  []Activity      `json:"recentActivity"`
}

// Engine computes Dashboard values.
type Engine struct {
	now func() time.Time
	loc *time.Location
}

// NewEngine returns an engine using clock for "now" and loc for calendar days.
// A nil clock means time.Now, a nil loc means time.Local.
func NewEngine(clock func() time.Time, loc *time.Location) *Engine {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Engine{now: clock, loc: loc}
}

// Build aggregates stations and sessions into a Dashboard.
func (e *Engine) Build(stations []models.Station, sessions []models.Session) Dashboard {
	current := e.now()
	return Dashboard{
		Stats:           Summarize(stations, sessions),
		StatusData:      StatusDistribution(stations),
		EnergyByStation: EnergyRanking(stations, sessions, topStations),
		SessionData:     DailySeries(sessions, current, e.loc, seriesDays),
		RecentActivity:  RecentActivity(sessions, current, recentSessions),
	}
}

// Summarize computes all-time totals.
func Summarize(stations []models.Station, sessions []models.Session) Stats {
	stats := Stats{
		TotalSessions: len(sessions),
		TotalStations: len(stations),
	}
	for _, st := range stations {
		if st.Status == models.StationActive {
			stats.ActiveStations++
		}
	}
	for _, s := range sessions {
		stats.EnergyDelivered += s.EnergyKWh
		stats.Revenue += s.Cost
	}
	return stats
}

// StatusDistribution counts stations per status, always in Active, Idle, Maintenance order.
func StatusDistribution(stations []models.Station) []StatusSlice {
	counts := make(map[models.StationStatus]int, 3)
	for _, st := range stations {
		counts[st.Status]++
	}
	return []StatusSlice{
		{Name: "Active", Value: counts[models.StationActive], Color: colorActive},
		{Name: "Idle", Value: counts[models.StationOffline], Color: colorIdle},
		{Name: "Maintenance", Value: counts[models.StationMaintenance], Color: colorMaintenance},
	}
}

// EnergyRanking sums delivered energy per station (joined by station id) and
// returns the top n, highest first. Equal totals keep station order.
func EnergyRanking(stations []models.Station, sessions []models.Session, n int) []StationEnergy {
	totals := make(map[string]float64, len(stations))
	for _, s := range sessions {
		totals[s.StationID] += s.EnergyKWh
	}

	type ranked struct {
		row   StationEnergy
		total float64
	}
	rows := make([]ranked, 0, len(stations))
	for _, st := range stations {
		total := totals[st.ID]
		rows = append(rows, ranked{
			row: StationEnergy{
				StationID:  st.ID,
				Station:    st.Name,
				KWh:        math.Round(total),
				Efficiency: st.Uptime,
			},
			total: total,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].total > rows[j].total })

	if len(rows) > n {
		rows = rows[:n]
	}
	out := make([]StationEnergy, len(rows))
	for i, r := range rows {
		out[i] = r.row
	}
	return out
}

// DailySeries buckets sessions by the calendar day (in loc) of their start time
// for the `days` days ending on current's day, oldest first.
func DailySeries(sessions []models.Session, current time.Time, loc *time.Location, days int) []DayBucket {
	today := now.With(current.In(loc)).BeginningOfDay()

	type acc struct {
		count  int
		energy float64
	}
	byDay := make(map[string]*acc, days)
	for _, s := range sessions {
		key := s.StartTime.In(loc).Format(time.DateOnly)
		a, ok := byDay[key]
		if !ok {
			a = &acc{}
			byDay[key] = a
		}
		a.count++
		a.energy += s.EnergyKWh
	}

	series := make([]DayBucket, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format(time.DateOnly)
		bucket := DayBucket{Date: key, Day: day.Format("Mon")}
		if a, ok := byDay[key]; ok {
			bucket.Sessions = a.count
			bucket.Energy = math.Round(a.energy)
		}
		series = append(series, bucket)
	}
	return series
}

// RecentActivity returns the n most recently created sessions as display rows.
func RecentActivity(sessions []models.Session, current time.Time, n int) []Activity {
	ordered := make([]models.Session, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].CreatedAt.After(ordered[j].CreatedAt) })

	if len(ordered) > n {
		ordered = ordered[:n]
	}
	feed := make([]Activity, 0, len(ordered))
	for _, s := range ordered {
		feed = append(feed, Activity{
			ID:      s.ID,
			Station: s.StationName(),
			User:    MaskUser(s.UserID),
			Time:    RelativeTime(s.StartTime, current),
			Status:  strings.ToLower(string(s.Status)),
		})
	}
	return feed
}

// MaskUser keeps only the last four characters of a user id.
func MaskUser(userID string) string {
	r := []rune(userID)
	if len(r) > 4 {
		r = r[len(r)-4:]
	}
	return "User #" + string(r)
}
