package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/igor-olikh/drive-pilot/internal/detector"
	"github.com/igor-olikh/drive-pilot/internal/shared/geo"

	"github.com/google/uuid"
)

// ErrInvalidState signals an illegal session transition, such as starting
// a session while one is active. It marks an ordering bug in the caller
// and is never absorbed silently.
var ErrInvalidState = errors.New("invalid session state")

// Manager owns the single active drive session and its waypoints. At most
// one non-completed session exists at any time. The orchestrator is the
// sole writer; the internal mutex only makes read snapshots safe from
// other goroutines.
type Manager struct {
	mu        sync.Mutex
	now       func() time.Time
	current   *DriveSession
	waypoints []Waypoint
}

func NewManager() *Manager {
	return &Manager{now: time.Now}
}

// WithNow overrides the time source, for tests.
func (m *Manager) WithNow(now func() time.Time) *Manager {
	m.now = now
	return m
}

// StartSession creates a new active session. Fails if a non-completed
// session already exists.
func (m *Manager) StartSession(trigger Trigger) (DriveSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && m.current.Status != StatusCompleted {
		return DriveSession{}, fmt.Errorf("%w: session %s is %s", ErrInvalidState, m.current.ID, m.current.Status)
	}

	m.current = &DriveSession{
		ID:           uuid.NewString(),
		StartTime:    m.now(),
		Status:       StatusActive,
		StartTrigger: trigger,
	}
	m.waypoints = nil
	return *m.current, nil
}

func (m *Manager) PauseSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || m.current.Status != StatusActive {
		return fmt.Errorf("%w: no active session to pause", ErrInvalidState)
	}
	m.current.Status = StatusPaused
	return nil
}

func (m *Manager) ResumeSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || m.current.Status != StatusPaused {
		return fmt.Errorf("%w: no paused session to resume", ErrInvalidState)
	}
	m.current.Status = StatusActive
	return nil
}

// AddWaypoint appends a sample to the active session. Samples arriving
// while the session is paused or absent are dropped; the return value
// reports whether the sample was accepted.
func (m *Manager) AddWaypoint(sample detector.LocationSample) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || m.current.Status != StatusActive {
		return false
	}
	m.waypoints = append(m.waypoints, Waypoint{
		Ordinal:   len(m.waypoints) + 1,
		SessionID: m.current.ID,
		Sample:    sample,
	})
	if v := sample.Speed(); v > m.current.MaxSpeedMps {
		m.current.MaxSpeedMps = v
	}
	return true
}

// EndSession completes the current session, computes its final statistics
// and returns an immutable copy plus the recorded waypoints. The manager
// is empty afterwards so a new session can begin.
func (m *Manager) EndSession(trigger Trigger) (DriveSession, []Waypoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return DriveSession{}, nil, fmt.Errorf("%w: no session to end", ErrInvalidState)
	}

	ended := m.now()
	m.current.EndTime = &ended
	m.current.EndTrigger = &trigger
	m.current.Status = StatusCompleted
	m.current.WaypointCount = len(m.waypoints)
	m.computeStats()

	completed := *m.current
	waypoints := m.waypoints
	m.current = nil
	m.waypoints = nil
	return completed, waypoints, nil
}

// Current returns a snapshot of the session in progress, if any.
func (m *Manager) Current() (DriveSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return DriveSession{}, false
	}
	return *m.current, true
}

// HasSession reports whether a non-completed session exists.
func (m *Manager) HasSession() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil && m.current.Status != StatusCompleted
}

// computeStats fills distance, duration and average speed on completion.
// With fewer than two waypoints everything stays at zero; that is an
// accepted degenerate case, not an error.
func (m *Manager) computeStats() {
	if len(m.waypoints) < 2 {
		return
	}

	m.current.TotalDurationS = m.current.EndTime.Sub(m.current.StartTime).Seconds()

	var distance float64
	for i := 1; i < len(m.waypoints); i++ {
		a := m.waypoints[i-1].Sample
		b := m.waypoints[i].Sample
		distance += geo.DistanceMeters(a.Lat, a.Lng, b.Lat, b.Lng)
	}
	m.current.TotalDistanceM = distance

	if m.current.TotalDurationS > 0 {
		m.current.AverageSpeedMps = distance / m.current.TotalDurationS
	}
}
