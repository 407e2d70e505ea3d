package detector

import "time"

// LocationSample is one reading from the location feed. Optional fields
// are pointers so an absent value is distinguishable from zero.
type LocationSample struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	AltitudeM  *float64  `json:"altitude_m,omitempty"`
	AccuracyM  *float64  `json:"accuracy_m,omitempty"`
	SpeedMps   *float64  `json:"speed_mps,omitempty"`
	HeadingDeg *float64  `json:"heading_deg,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Speed returns the sample speed, treating an absent reading as 0.
func (s LocationSample) Speed() float64 {
	if s.SpeedMps == nil {
		return 0
	}
	return *s.SpeedMps
}

type State string

const (
	StateIdle       State = "idle"
	StateDetecting  State = "detecting"
	StateDriving    State = "driving"
	StateStationary State = "stationary"
)

// Conditions are the debounce thresholds for driving detection.
type Conditions struct {
	MinSpeedMps       float64
	MinDuration       time.Duration
	MaxStationaryTime time.Duration
	SessionEndTimeout time.Duration
	MinDistanceM      float64
}

func DefaultConditions() Conditions {
	return Conditions{
		MinSpeedMps:       5,
		MinDuration:       60 * time.Second,
		MaxStationaryTime: 120 * time.Second,
		SessionEndTimeout: 300 * time.Second,
		MinDistanceM:      200,
	}
}

// Evaluation is the detector output for a single processed sample.
type Evaluation struct {
	State              State         `json:"state"`
	Confidence         float64       `json:"confidence"`
	CurrentSpeedMps    float64       `json:"current_speed_mps"`
	AverageSpeedMps    float64       `json:"average_speed_mps"`
	DrivingDuration    time.Duration `json:"-"`
	StationaryDuration time.Duration `json:"-"`
}
