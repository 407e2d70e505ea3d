package metrics

import (
	"testing"
	"time"

	"github.com/igor-olikh/drive-pilot/internal/orchestrator"
	"github.com/igor-olikh/drive-pilot/internal/session"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSubscriberCountsSamples(t *testing.T) {
	sub := Subscriber()

	before := testutil.ToFloat64(SamplesProcessed)
	sub(orchestrator.Event{Type: orchestrator.EventLocationUpdate, Timestamp: time.Now()})
	sub(orchestrator.Event{Type: orchestrator.EventLocationUpdate, Timestamp: time.Now()})

	if got := testutil.ToFloat64(SamplesProcessed) - before; got != 2 {
		t.Errorf("expected 2 samples counted, got %v", got)
	}
}

func TestSubscriberCountsSessionLifecycle(t *testing.T) {
	sub := Subscriber()

	startedBefore := testutil.ToFloat64(SessionsStarted)
	endedBefore := testutil.ToFloat64(SessionsEnded)

	sub(orchestrator.Event{Type: orchestrator.EventSessionStarted})
	sub(orchestrator.Event{
		Type:    orchestrator.EventSessionEnded,
		Session: &session.DriveSession{TotalDistanceM: 1234},
	})

	if got := testutil.ToFloat64(SessionsStarted) - startedBefore; got != 1 {
		t.Errorf("expected 1 session started, got %v", got)
	}
	if got := testutil.ToFloat64(SessionsEnded) - endedBefore; got != 1 {
		t.Errorf("expected 1 session ended, got %v", got)
	}
}

func TestSubscriberCountsErrors(t *testing.T) {
	sub := Subscriber()

	before := testutil.ToFloat64(EngineErrors)
	sub(orchestrator.Event{Type: orchestrator.EventError, Error: "feed failure"})

	if got := testutil.ToFloat64(EngineErrors) - before; got != 1 {
		t.Errorf("expected 1 error counted, got %v", got)
	}
}
