package orchestrator

import (
	"time"

	"github.com/igor-olikh/drive-pilot/internal/detector"
	"github.com/igor-olikh/drive-pilot/internal/device"
	"github.com/igor-olikh/drive-pilot/internal/session"
)

type EventType string

const (
	EventBluetoothConnected    EventType = "BLUETOOTH_CONNECTED"
	EventBluetoothDisconnected EventType = "BLUETOOTH_DISCONNECTED"
	EventLocationUpdate        EventType = "LOCATION_UPDATE"
	EventDrivingDetected       EventType = "DRIVING_DETECTED"
	EventDrivingPaused         EventType = "DRIVING_PAUSED"
	EventSessionStarted        EventType = "SESSION_STARTED"
	EventSessionEnded          EventType = "SESSION_ENDED"
	EventError                 EventType = "ERROR"
)

// Event is one externally meaningful transition. Waypoints ride along for
// SESSION_ENDED so the persistence subscriber can store them; they are
// excluded from the JSON form sent to stream clients.
type Event struct {
	Type       EventType                `json:"type"`
	Timestamp  time.Time                `json:"timestamp"`
	Session    *session.DriveSession    `json:"session,omitempty"`
	Waypoints  []session.Waypoint       `json:"-"`
	Sample     *detector.LocationSample `json:"sample,omitempty"`
	Evaluation *detector.Evaluation     `json:"evaluation,omitempty"`
	Device     *device.Device           `json:"device,omitempty"`
	Error      string                   `json:"error,omitempty"`
}

// Subscriber receives every emitted event. A subscriber that panics is
// logged and skipped; it never interrupts delivery to the others.
type Subscriber func(Event)
