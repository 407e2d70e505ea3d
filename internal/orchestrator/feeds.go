package orchestrator

import (
	"context"

	"github.com/igor-olikh/drive-pilot/internal/detector"
	"github.com/igor-olikh/drive-pilot/internal/device"
)

// FeedMode selects the accuracy/interval profile requested from the
// location feed.
type FeedMode string

const (
	ModeMonitoring FeedMode = "monitoring"
	ModeDriving    FeedMode = "driving"
	ModePaused     FeedMode = "paused"
)

// LocationFeed is the external location source. It delivers samples
// asynchronously at a cadence dependent on the requested mode.
type LocationFeed interface {
	Subscribe(onSample func(detector.LocationSample))
	SetMode(mode FeedMode)
	Start() error
	Stop() error
}

// BluetoothFeed is the external Bluetooth source. Scan errors are the
// feed's problem; they surface as skipped events, never as failures here.
type BluetoothFeed interface {
	Subscribe(onConnect, onDisconnect func(device.Device))
	Start() error
	Stop() error
}

// TagStore is the persistence collaborator for manual car-device tags,
// loaded once during initialization.
type TagStore interface {
	LoadTaggedDevices(ctx context.Context) ([]device.CarDevice, error)
}
