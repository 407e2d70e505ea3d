package session

import (
	"errors"
	"testing"
	"time"

	"github.com/igor-olikh/drive-pilot/internal/detector"
)

func fixedClock(t0 time.Time, step time.Duration) func() time.Time {
	calls := 0
	return func() time.Time {
		now := t0.Add(time.Duration(calls) * step)
		calls++
		return now
	}
}

func sampleWith(lat, lng, speed float64) detector.LocationSample {
	return detector.LocationSample{Lat: lat, Lng: lng, SpeedMps: &speed, RecordedAt: time.Now()}
}

func TestStartSessionTwiceFails(t *testing.T) {
	m := NewManager()

	if _, err := m.StartSession(ManualTrigger()); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := m.StartSession(ManualTrigger()); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	// still invalid after the first failure
	if _, err := m.StartSession(ManualTrigger()); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState again, got %v", err)
	}
}

func TestStartAfterEndSucceeds(t *testing.T) {
	m := NewManager()

	if _, err := m.StartSession(ManualTrigger()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, _, err := m.EndSession(ManualTrigger()); err != nil {
		t.Fatalf("end: %v", err)
	}
	if _, err := m.StartSession(ManualTrigger()); err != nil {
		t.Fatalf("restart: %v", err)
	}
}

func TestPauseResumeTransitions(t *testing.T) {
	m := NewManager()

	if err := m.PauseSession(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("pause without session: %v", err)
	}
	if err := m.ResumeSession(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("resume without session: %v", err)
	}

	if _, err := m.StartSession(ManualTrigger()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.ResumeSession(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("resume while active: %v", err)
	}
	if err := m.PauseSession(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := m.PauseSession(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("double pause: %v", err)
	}
	if err := m.ResumeSession(); err != nil {
		t.Fatalf("resume: %v", err)
	}

	s, ok := m.Current()
	if !ok || s.Status != StatusActive {
		t.Fatalf("expected active session, got %+v ok=%v", s, ok)
	}
}

func TestEndWithoutSessionFails(t *testing.T) {
	m := NewManager()
	if _, _, err := m.EndSession(ManualTrigger()); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestWaypointCountOnlyCountsActive(t *testing.T) {
	m := NewManager()

	if m.AddWaypoint(sampleWith(0, 0, 5)) {
		t.Fatalf("waypoint accepted without session")
	}

	if _, err := m.StartSession(ManualTrigger()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !m.AddWaypoint(sampleWith(0, 0, 5)) {
		t.Fatalf("waypoint rejected while active")
	}

	if err := m.PauseSession(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if m.AddWaypoint(sampleWith(0, 0.001, 5)) {
		t.Fatalf("waypoint accepted while paused")
	}

	if err := m.ResumeSession(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if !m.AddWaypoint(sampleWith(0, 0.002, 5)) {
		t.Fatalf("waypoint rejected after resume")
	}

	completed, waypoints, err := m.EndSession(ManualTrigger())
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if completed.WaypointCount != 2 || len(waypoints) != 2 {
		t.Fatalf("expected 2 waypoints, got %d/%d", completed.WaypointCount, len(waypoints))
	}
	if waypoints[0].Ordinal != 1 || waypoints[1].Ordinal != 2 {
		t.Fatalf("unexpected ordinals %d %d", waypoints[0].Ordinal, waypoints[1].Ordinal)
	}
}

func TestStatisticsOnCompletion(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	// first call stamps start time, second stamps end time 100s later
	m := NewManager().WithNow(fixedClock(t0, 100*time.Second))

	if _, err := m.StartSession(GPSTrigger(sampleWith(0, 0, 6))); err != nil {
		t.Fatalf("start: %v", err)
	}
	m.AddWaypoint(sampleWith(0, 0, 6))
	m.AddWaypoint(sampleWith(0, 0.01, 9))

	completed, _, err := m.EndSession(ManualTrigger())
	if err != nil {
		t.Fatalf("end: %v", err)
	}

	// 0.01 degrees of longitude on the equator is about 1.11 km
	if completed.TotalDistanceM < 1100 || completed.TotalDistanceM > 1125 {
		t.Fatalf("unexpected distance %v", completed.TotalDistanceM)
	}
	if completed.TotalDurationS != 100 {
		t.Fatalf("unexpected duration %v", completed.TotalDurationS)
	}
	if completed.AverageSpeedMps < 11 || completed.AverageSpeedMps > 11.3 {
		t.Fatalf("unexpected average speed %v", completed.AverageSpeedMps)
	}
	if completed.MaxSpeedMps != 9 {
		t.Fatalf("unexpected max speed %v", completed.MaxSpeedMps)
	}
	if completed.Status != StatusCompleted || completed.EndTrigger == nil || completed.EndTrigger.Type != TriggerManual {
		t.Fatalf("unexpected completion record %+v", completed)
	}
}

func TestDegenerateSessionKeepsZeroStats(t *testing.T) {
	m := NewManager()

	if _, err := m.StartSession(ManualTrigger()); err != nil {
		t.Fatalf("start: %v", err)
	}
	m.AddWaypoint(sampleWith(0, 0, 3))

	completed, _, err := m.EndSession(ManualTrigger())
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if completed.TotalDistanceM != 0 || completed.TotalDurationS != 0 || completed.AverageSpeedMps != 0 {
		t.Fatalf("expected zero stats with one waypoint, got %+v", completed)
	}
	if completed.WaypointCount != 1 {
		t.Fatalf("expected waypoint count 1, got %d", completed.WaypointCount)
	}
}

func TestEndClearsState(t *testing.T) {
	m := NewManager()

	if _, err := m.StartSession(ManualTrigger()); err != nil {
		t.Fatalf("start: %v", err)
	}
	m.AddWaypoint(sampleWith(0, 0, 3))
	if _, _, err := m.EndSession(ManualTrigger()); err != nil {
		t.Fatalf("end: %v", err)
	}

	if m.HasSession() {
		t.Fatalf("expected no session after end")
	}
	if _, ok := m.Current(); ok {
		t.Fatalf("expected empty current after end")
	}

	if _, err := m.StartSession(ManualTrigger()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	completed, waypoints, err := m.EndSession(ManualTrigger())
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if completed.WaypointCount != 0 || len(waypoints) != 0 {
		t.Fatalf("waypoints leaked across sessions: %d", completed.WaypointCount)
	}
}

func TestPausedSessionBlocksNewStart(t *testing.T) {
	m := NewManager()

	if _, err := m.StartSession(ManualTrigger()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.PauseSession(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := m.StartSession(ManualTrigger()); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState while paused, got %v", err)
	}
	if !m.HasSession() {
		t.Fatalf("paused session should still count as existing")
	}
}
