package detector

import "time"

// historyHorizon bounds the rolling sample window. Fixed, not tied to
// any configured timeout.
const historyHorizon = 5 * time.Minute

// Detector classifies a stream of location samples as idle, detecting,
// driving or stationary. Elapsed time is measured from sample timestamps,
// so replayed streams evaluate deterministically. Not safe for concurrent
// use; callers serialize Process and Reset.
type Detector struct {
	cond Conditions

	history         []LocationSample
	state           State
	drivingStart    *time.Time
	stationaryStart *time.Time
}

func New(cond Conditions) *Detector {
	return &Detector{cond: cond, state: StateIdle}
}

// Process evaluates one sample and returns the resulting classification.
func (d *Detector) Process(sample LocationSample) Evaluation {
	ts := sample.RecordedAt
	d.history = append(d.history, sample)
	d.evict(ts)

	moving := sample.Speed() >= d.cond.MinSpeedMps
	if moving {
		d.stationaryStart = nil
		if d.drivingStart == nil {
			start := ts
			d.drivingStart = &start
			d.state = StateDetecting
		}
		if ts.Sub(*d.drivingStart) >= d.cond.MinDuration {
			d.state = StateDriving
		}
	} else {
		if d.stationaryStart == nil {
			start := ts
			d.stationaryStart = &start
		}
		if ts.Sub(*d.stationaryStart) >= d.cond.MaxStationaryTime {
			// Leaving stationary requires re-detecting from a fresh
			// marker, so the driving marker is dropped here.
			d.state = StateStationary
			d.drivingStart = nil
		}
	}

	return Evaluation{
		State:              d.state,
		Confidence:         d.confidence(ts),
		CurrentSpeedMps:    sample.Speed(),
		AverageSpeedMps:    d.averageSpeed(),
		DrivingDuration:    d.elapsed(d.drivingStart, ts),
		StationaryDuration: d.elapsed(d.stationaryStart, ts),
	}
}

// Reset clears all markers and history, returning to idle.
func (d *Detector) Reset() {
	d.history = nil
	d.state = StateIdle
	d.drivingStart = nil
	d.stationaryStart = nil
}

func (d *Detector) State() State {
	return d.state
}

func (d *Detector) confidence(ts time.Time) float64 {
	driving := d.elapsed(d.drivingStart, ts)
	switch d.state {
	case StateDriving:
		c := driving.Seconds() / (2 * d.cond.MinDuration.Seconds())
		if c > 1 {
			c = 1
		}
		return c
	case StateDetecting:
		return driving.Seconds() / d.cond.MinDuration.Seconds()
	default:
		return 0
	}
}

func (d *Detector) averageSpeed() float64 {
	var sum float64
	var n int
	for _, s := range d.history {
		if v := s.Speed(); v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (d *Detector) evict(now time.Time) {
	cutoff := now.Add(-historyHorizon)
	i := 0
	for i < len(d.history) && d.history[i].RecordedAt.Before(cutoff) {
		i++
	}
	if i > 0 {
		d.history = append(d.history[:0:0], d.history[i:]...)
	}
}

func (d *Detector) elapsed(marker *time.Time, ts time.Time) time.Duration {
	if marker == nil {
		return 0
	}
	return ts.Sub(*marker)
}
