package trip

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/igor-olikh/drive-pilot/internal/db"
	"github.com/igor-olikh/drive-pilot/internal/session"
)

var ErrIncomplete = errors.New("session is not completed")

// Repository persists completed drive sessions and their waypoints.
type Repository struct {
	db db.Querier
}

func NewRepository(db db.Querier) *Repository {
	return &Repository{db: db}
}

// Save stores one completed session with its waypoints. Triggers are
// kept as JSON so the stored record round-trips the full evidence.
func (r *Repository) Save(ctx context.Context, s session.DriveSession, waypoints []session.Waypoint) error {
	if s.Status != session.StatusCompleted || s.EndTime == nil || s.EndTrigger == nil {
		return ErrIncomplete
	}

	startTrigger, err := json.Marshal(s.StartTrigger)
	if err != nil {
		return err
	}
	endTrigger, err := json.Marshal(s.EndTrigger)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO trips (id, start_time, end_time, start_trigger, end_trigger, total_distance_m, total_duration_s, average_speed_mps, max_speed_mps, waypoint_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, s.ID, s.StartTime, *s.EndTime, startTrigger, endTrigger, s.TotalDistanceM, s.TotalDurationS, s.AverageSpeedMps, s.MaxSpeedMps, s.WaypointCount)
	if err != nil {
		return err
	}

	for _, wp := range waypoints {
		_, err = r.db.Exec(ctx, `
			INSERT INTO trip_points (trip_id, ordinal, lat, lng, speed_mps, recorded_at)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, s.ID, wp.Ordinal, wp.Sample.Lat, wp.Sample.Lng, wp.Sample.Speed(), wp.Sample.RecordedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]Trip, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, start_time, end_time, start_trigger, end_trigger, total_distance_m, total_duration_s, average_speed_mps, max_speed_mps, waypoint_count, created_at
		FROM trips
		ORDER BY start_time DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

func (r *Repository) Get(ctx context.Context, id string) (Trip, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, start_time, end_time, start_trigger, end_trigger, total_distance_m, total_duration_s, average_speed_mps, max_speed_mps, waypoint_count, created_at
		FROM trips WHERE id=$1
	`, id)
	return scanTrip(row)
}

func (r *Repository) Points(ctx context.Context, tripID string) ([]TripPoint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT trip_id, ordinal, lat, lng, speed_mps, recorded_at
		FROM trip_points WHERE trip_id=$1
		ORDER BY ordinal
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []TripPoint
	for rows.Next() {
		var p TripPoint
		if err := rows.Scan(&p.TripID, &p.Ordinal, &p.Lat, &p.Lng, &p.SpeedMps, &p.RecordedAt); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (Trip, error) {
	var trip Trip
	var startTrigger, endTrigger []byte
	if err := row.Scan(&trip.ID, &trip.StartTime, &trip.EndTime, &startTrigger, &endTrigger,
		&trip.TotalDistanceM, &trip.TotalDurationS, &trip.AverageSpeedMps, &trip.MaxSpeedMps,
		&trip.WaypointCount, &trip.CreatedAt); err != nil {
		return Trip{}, err
	}
	if err := json.Unmarshal(startTrigger, &trip.StartTrigger); err != nil {
		return Trip{}, err
	}
	if err := json.Unmarshal(endTrigger, &trip.EndTrigger); err != nil {
		return Trip{}, err
	}
	return trip, nil
}
