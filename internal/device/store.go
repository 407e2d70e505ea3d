package device

import (
	"context"

	"github.com/igor-olikh/drive-pilot/internal/db"
)

// Store persists manual car-device tags.
type Store struct {
	db db.Querier
}

func NewStore(db db.Querier) *Store {
	return &Store{db: db}
}

func (s *Store) LoadTaggedDevices(ctx context.Context) ([]CarDevice, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, origin, last_connected, created_at
		FROM car_devices
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []CarDevice
	for rows.Next() {
		var d CarDevice
		if err := rows.Scan(&d.ID, &d.Name, &d.Origin, &d.LastConnected, &d.CreatedAt); err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, nil
}

func (s *Store) Save(ctx context.Context, d CarDevice) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO car_devices (id, name, origin, last_connected, created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, origin=EXCLUDED.origin, last_connected=EXCLUDED.last_connected
	`, d.ID, d.Name, d.Origin, d.LastConnected, d.CreatedAt)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM car_devices WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
