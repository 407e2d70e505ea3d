package session

import (
	"time"

	"github.com/igor-olikh/drive-pilot/internal/detector"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

type TriggerType string

const (
	TriggerBluetooth TriggerType = "bluetooth"
	TriggerGPS       TriggerType = "gps"
	TriggerManual    TriggerType = "manual"
)

// Trigger records the evidence credited with starting or ending a session.
type Trigger struct {
	Type       TriggerType              `json:"type"`
	DeviceID   string                   `json:"device_id,omitempty"`
	DeviceName string                   `json:"device_name,omitempty"`
	Sample     *detector.LocationSample `json:"sample,omitempty"`
}

func BluetoothTrigger(deviceID, deviceName string) Trigger {
	return Trigger{Type: TriggerBluetooth, DeviceID: deviceID, DeviceName: deviceName}
}

func GPSTrigger(sample detector.LocationSample) Trigger {
	return Trigger{Type: TriggerGPS, Sample: &sample}
}

func ManualTrigger() Trigger {
	return Trigger{Type: TriggerManual}
}

type DriveSession struct {
	ID              string     `json:"id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	Status          Status     `json:"status"`
	StartTrigger    Trigger    `json:"start_trigger"`
	EndTrigger      *Trigger   `json:"end_trigger,omitempty"`
	TotalDistanceM  float64    `json:"total_distance_m"`
	TotalDurationS  float64    `json:"total_duration_s"`
	AverageSpeedMps float64    `json:"average_speed_mps"`
	MaxSpeedMps     float64    `json:"max_speed_mps"`
	WaypointCount   int        `json:"waypoint_count"`
}

// Waypoint is one recorded location sample belonging to a session,
// numbered in arrival order starting at 1.
type Waypoint struct {
	Ordinal   int                     `json:"ordinal"`
	SessionID string                  `json:"session_id"`
	Sample    detector.LocationSample `json:"sample"`
}
