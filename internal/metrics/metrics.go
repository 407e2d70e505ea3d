package metrics

import (
	"github.com/igor-olikh/drive-pilot/internal/orchestrator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SamplesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "detection_location_samples_total",
		Help: "Location samples run through the detection engine",
	})

	EventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "detection_events_emitted_total",
		Help: "Events emitted by the orchestrator, by type",
	}, []string{"type"})

	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "detection_sessions_started_total",
		Help: "Drive sessions started",
	})

	SessionsEnded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "detection_sessions_ended_total",
		Help: "Drive sessions completed",
	})

	TripDistance = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "detection_trip_distance_meters",
		Help:    "Distance of completed trips",
		Buckets: []float64{200, 500, 1000, 2000, 5000, 10000, 25000, 50000, 100000},
	})

	EngineErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "detection_errors_total",
		Help: "ERROR events emitted by the engine",
	})
)

// Subscriber counts every emitted event.
func Subscriber() orchestrator.Subscriber {
	return func(ev orchestrator.Event) {
		EventsEmitted.WithLabelValues(string(ev.Type)).Inc()

		switch ev.Type {
		case orchestrator.EventLocationUpdate:
			SamplesProcessed.Inc()
		case orchestrator.EventSessionStarted:
			SessionsStarted.Inc()
		case orchestrator.EventSessionEnded:
			SessionsEnded.Inc()
			if ev.Session != nil {
				TripDistance.Observe(ev.Session.TotalDistanceM)
			}
		case orchestrator.EventError:
			EngineErrors.Inc()
		}
	}
}
