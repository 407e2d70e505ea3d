package trip

import (
	"testing"
	"time"

	"github.com/igor-olikh/drive-pilot/internal/orchestrator"

	"github.com/pashagolub/pgxmock/v3"
)

func TestSubscriberSavesCompletedSessions(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	s, waypoints := completedSession()

	mock.ExpectExec(`INSERT INTO trips`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO trip_points`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO trip_points`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	sub := NewRepository(mock).Subscriber(200)
	sub(orchestrator.Event{Type: orchestrator.EventSessionEnded, Timestamp: time.Now(), Session: &s, Waypoints: waypoints})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubscriberSkipsShortTrips(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	s, waypoints := completedSession()
	s.TotalDistanceM = 80

	sub := NewRepository(mock).Subscriber(200)
	sub(orchestrator.Event{Type: orchestrator.EventSessionEnded, Timestamp: time.Now(), Session: &s, Waypoints: waypoints})

	// no queries expected
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("short trip was persisted: %v", err)
	}
}

func TestSubscriberIgnoresOtherEvents(t *testing.T) {
	sub := NewRepository(nil).Subscriber(200)
	sub(orchestrator.Event{Type: orchestrator.EventLocationUpdate, Timestamp: time.Now()})
	sub(orchestrator.Event{Type: orchestrator.EventSessionEnded, Timestamp: time.Now()})
}
