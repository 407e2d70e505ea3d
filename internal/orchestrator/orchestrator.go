package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/igor-olikh/drive-pilot/internal/detector"
	"github.com/igor-olikh/drive-pilot/internal/device"
	"github.com/igor-olikh/drive-pilot/internal/session"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusMonitoring Status = "monitoring"
	StatusDetecting  Status = "detecting"
	StatusDriving    Status = "driving"
	StatusPaused     Status = "paused"
	StatusError      Status = "error"
)

var ErrNotInitialized = errors.New("orchestrator not initialized")

// Orchestrator fuses the location and Bluetooth feeds into drive
// sessions. All event handling is serialized through mu: samples and
// Bluetooth notifications arrive from independent sources but mutate
// shared status and session state one at a time, in arrival order.
type Orchestrator struct {
	mu   sync.Mutex
	cond detector.Conditions

	det      *detector.Detector
	sessions *session.Manager
	matcher  *device.Matcher
	locFeed  LocationFeed
	btFeed   BluetoothFeed
	tags     TagStore

	subMu       sync.RWMutex
	subscribers []Subscriber

	status       Status
	initialized  bool
	running      bool
	connectedCar *device.Device
	now          func() time.Time
}

func New(cond detector.Conditions, sessions *session.Manager, matcher *device.Matcher, locFeed LocationFeed, btFeed BluetoothFeed, tags TagStore) *Orchestrator {
	return &Orchestrator{
		cond:     cond,
		det:      detector.New(cond),
		sessions: sessions,
		matcher:  matcher,
		locFeed:  locFeed,
		btFeed:   btFeed,
		tags:     tags,
		status:   StatusIdle,
		now:      time.Now,
	}
}

// WithNow overrides the time source, for tests.
func (o *Orchestrator) WithNow(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Initialize loads persisted device tags and registers the feed
// callbacks. Idempotent: a second call warns and does nothing.
func (o *Orchestrator) Initialize(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.initialized {
		log.Printf("orchestrator already initialized")
		return nil
	}

	if o.tags != nil {
		tagged, err := o.tags.LoadTaggedDevices(ctx)
		if err != nil {
			log.Printf("loading device tags failed: %v", err)
		} else {
			o.matcher.LoadTags(tagged)
		}
	}

	o.locFeed.Subscribe(o.handleLocation)
	o.btFeed.Subscribe(o.handleConnect, o.handleDisconnect)
	o.initialized = true
	return nil
}

// Start asks both feeds to begin emitting and moves to monitoring.
func (o *Orchestrator) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.initialized {
		return ErrNotInitialized
	}
	if o.running {
		log.Printf("orchestrator already running (status=%s)", o.status)
		return nil
	}

	if err := o.locFeed.Start(); err != nil {
		return o.feedFailure(fmt.Errorf("location feed: %w", err))
	}
	if err := o.btFeed.Start(); err != nil {
		_ = o.locFeed.Stop()
		return o.feedFailure(fmt.Errorf("bluetooth feed: %w", err))
	}

	o.locFeed.SetMode(ModeMonitoring)
	o.running = true
	o.status = StatusMonitoring
	return nil
}

// Stop is safe to call at any time. An active session is ended with a
// manual trigger before the feeds are torn down; every teardown step is
// attempted even when an earlier one fails, with failures surfaced as
// ERROR events.
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sessions.HasSession() {
		completed, waypoints, err := o.sessions.EndSession(session.ManualTrigger())
		if err != nil {
			o.emit(Event{Type: EventError, Timestamp: o.now(), Error: err.Error()})
		} else {
			o.emit(Event{Type: EventSessionEnded, Timestamp: o.now(), Session: &completed, Waypoints: waypoints})
		}
	}

	var errs []error
	if o.running {
		if err := o.locFeed.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("location feed: %w", err))
			o.emit(Event{Type: EventError, Timestamp: o.now(), Error: err.Error()})
		}
		if err := o.btFeed.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("bluetooth feed: %w", err))
			o.emit(Event{Type: EventError, Timestamp: o.now(), Error: err.Error()})
		}
	}

	o.det.Reset()
	o.connectedCar = nil
	o.running = false
	o.status = StatusIdle
	return errors.Join(errs...)
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Subscribe registers a handler for every emitted event.
func (o *Orchestrator) Subscribe(sub Subscriber) {
	o.subMu.Lock()
	defer o.subMu.Unlock()
	o.subscribers = append(o.subscribers, sub)
}

// handleLocation is the fusion core. Runs under mu via the feed callback.
func (o *Orchestrator) handleLocation(sample detector.LocationSample) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.running {
		return
	}

	o.emit(Event{Type: EventLocationUpdate, Timestamp: o.now(), Sample: &sample})

	eval := o.det.Process(sample)
	switch eval.State {
	case detector.StateDriving:
		o.onDriving(sample, eval)
	case detector.StateStationary:
		o.onStationary(sample, eval)
	}
}

func (o *Orchestrator) onDriving(sample detector.LocationSample, eval detector.Evaluation) {
	if o.status == StatusDriving {
		o.sessions.AddWaypoint(sample)
		return
	}

	if o.status == StatusPaused {
		// the paused session is the one being resumed; a second one
		// must not be created while it exists
		if err := o.sessions.ResumeSession(); err != nil {
			o.emit(Event{Type: EventError, Timestamp: o.now(), Error: err.Error()})
			return
		}
		o.status = StatusDriving
		o.locFeed.SetMode(ModeDriving)
		current, _ := o.sessions.Current()
		o.emit(Event{Type: EventDrivingDetected, Timestamp: o.now(), Session: &current, Evaluation: &eval})
		return
	}

	trigger := session.GPSTrigger(sample)
	if o.connectedCar != nil {
		trigger = session.BluetoothTrigger(o.connectedCar.ID, o.connectedCar.Name)
	}

	started, err := o.sessions.StartSession(trigger)
	if err != nil {
		o.emit(Event{Type: EventError, Timestamp: o.now(), Error: err.Error()})
		return
	}

	o.status = StatusDriving
	o.locFeed.SetMode(ModeDriving)
	o.emit(Event{Type: EventSessionStarted, Timestamp: o.now(), Session: &started})
	o.emit(Event{Type: EventDrivingDetected, Timestamp: o.now(), Session: &started, Evaluation: &eval})
}

func (o *Orchestrator) onStationary(sample detector.LocationSample, eval detector.Evaluation) {
	if o.status == StatusDriving {
		if err := o.sessions.PauseSession(); err != nil {
			o.emit(Event{Type: EventError, Timestamp: o.now(), Error: err.Error()})
			return
		}
		o.status = StatusPaused
		o.locFeed.SetMode(ModePaused)
		current, _ := o.sessions.Current()
		o.emit(Event{Type: EventDrivingPaused, Timestamp: o.now(), Session: &current, Evaluation: &eval})
		return
	}

	// a paused session that stays stationary past the configured
	// timeout is force-ended
	if o.status == StatusPaused && eval.StationaryDuration >= o.cond.SessionEndTimeout {
		o.endSession(session.GPSTrigger(sample))
	}
}

// handleConnect runs when the Bluetooth feed reports a connection.
func (o *Orchestrator) handleConnect(d device.Device) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.running || !o.matcher.IsCarDevice(d) {
		return
	}

	d.IsCarDevice = true
	o.connectedCar = &d
	o.matcher.MarkConnected(d.ID, o.now())
	o.emit(Event{Type: EventBluetoothConnected, Timestamp: o.now(), Device: &d})

	// a car connection is a strong signal: raise accuracy before the
	// detector confirms motion
	if o.status == StatusMonitoring || o.status == StatusIdle {
		o.status = StatusDetecting
		o.locFeed.SetMode(ModeDriving)
	}
}

// handleDisconnect runs when the Bluetooth feed reports a disconnection.
func (o *Orchestrator) handleDisconnect(d device.Device) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.running || o.connectedCar == nil || o.connectedCar.ID != d.ID {
		return
	}

	disconnected := *o.connectedCar
	o.connectedCar = nil
	o.emit(Event{Type: EventBluetoothDisconnected, Timestamp: o.now(), Device: &disconnected})

	switch o.status {
	case StatusDriving, StatusPaused:
		if o.sessions.HasSession() {
			o.endSession(session.BluetoothTrigger(disconnected.ID, disconnected.Name))
		}
	case StatusDetecting:
		o.status = StatusMonitoring
		o.locFeed.SetMode(ModeMonitoring)
	}
}

// endSession completes the current session and returns to monitoring.
// Callers hold mu.
func (o *Orchestrator) endSession(trigger session.Trigger) {
	completed, waypoints, err := o.sessions.EndSession(trigger)
	if err != nil {
		o.emit(Event{Type: EventError, Timestamp: o.now(), Error: err.Error()})
		return
	}

	o.det.Reset()
	o.status = StatusMonitoring
	o.locFeed.SetMode(ModeMonitoring)
	o.emit(Event{Type: EventSessionEnded, Timestamp: o.now(), Session: &completed, Waypoints: waypoints})
}

// emit delivers an event to every subscriber. Each handler is isolated:
// a panic is logged and the remaining handlers still run.
func (o *Orchestrator) emit(ev Event) {
	o.subMu.RLock()
	subs := o.subscribers
	o.subMu.RUnlock()

	for _, sub := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("event subscriber panicked on %s: %v", ev.Type, r)
				}
			}()
			sub(ev)
		}()
	}
}

// feedFailure records an unrecoverable feed error. Callers hold mu.
func (o *Orchestrator) feedFailure(err error) error {
	o.status = StatusError
	o.emit(Event{Type: EventError, Timestamp: o.now(), Error: err.Error()})
	return err
}
