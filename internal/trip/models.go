package trip

import (
	"time"

	"github.com/igor-olikh/drive-pilot/internal/session"
)

// Trip is a completed drive session as persisted.
type Trip struct {
	ID              string           `json:"id"`
	StartTime       time.Time        `json:"start_time"`
	EndTime         time.Time        `json:"end_time"`
	StartTrigger    session.Trigger  `json:"start_trigger"`
	EndTrigger      session.Trigger  `json:"end_trigger"`
	TotalDistanceM  float64          `json:"total_distance_m"`
	TotalDurationS  float64          `json:"total_duration_s"`
	AverageSpeedMps float64          `json:"average_speed_mps"`
	MaxSpeedMps     float64          `json:"max_speed_mps"`
	WaypointCount   int              `json:"waypoint_count"`
	CreatedAt       time.Time        `json:"created_at"`
}

// TripPoint is one persisted waypoint of a completed trip.
type TripPoint struct {
	TripID     string    `json:"trip_id"`
	Ordinal    int       `json:"ordinal"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	SpeedMps   float64   `json:"speed_mps"`
	RecordedAt time.Time `json:"recorded_at"`
}
