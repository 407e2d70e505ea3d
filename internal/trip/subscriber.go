package trip

import (
	"context"
	"log"

	"github.com/igor-olikh/drive-pilot/internal/orchestrator"
)

// Subscriber returns an event handler that persists completed sessions.
// Sessions shorter than minDistanceM are considered noise and skipped;
// the SESSION_ENDED event has already been delivered to everyone else.
func (r *Repository) Subscriber(minDistanceM float64) orchestrator.Subscriber {
	return func(ev orchestrator.Event) {
		if ev.Type != orchestrator.EventSessionEnded || ev.Session == nil {
			return
		}
		if ev.Session.TotalDistanceM < minDistanceM {
			log.Printf("skipping trip %s: distance %.0fm below threshold %.0fm",
				ev.Session.ID, ev.Session.TotalDistanceM, minDistanceM)
			return
		}
		if err := r.Save(context.Background(), *ev.Session, ev.Waypoints); err != nil {
			log.Printf("saving trip %s failed: %v", ev.Session.ID, err)
		}
	}
}
