package device

import "time"

// Device is a Bluetooth device as reported by the feed.
type Device struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	IsCarDevice    bool      `json:"is_car_device"`
	SignalStrength *int      `json:"signal_strength,omitempty"`
	LastSeen       time.Time `json:"last_seen"`
}

type TagOrigin string

const (
	OriginAuto   TagOrigin = "auto"
	OriginManual TagOrigin = "manual"
)

// CarDevice is a device tagged as belonging to a car. Manual tags win
// over pattern matching and survive restarts via the tag store.
type CarDevice struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Origin        TagOrigin  `json:"origin"`
	LastConnected *time.Time `json:"last_connected,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
