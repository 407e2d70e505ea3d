package geo

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestHaversineKm(t *testing.T) {
	// Jakarta (-6.2, 106.816) to Bandung (-6.9175, 107.6191) ~ 115-120 km
	d := HaversineKm(-6.2, 106.816, -6.9175, 107.6191)
	if d < 100 || d > 140 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestDistanceMetersEquatorDegree(t *testing.T) {
	// 0.01 degrees of longitude on the equator is roughly 1.11 km
	d := DistanceMeters(0, 0, 0, 0.01)
	if d < 1100 || d > 1125 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestHaversineProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lat1 := rapid.Float64Range(-90, 90).Draw(t, "lat1")
		lng1 := rapid.Float64Range(-180, 180).Draw(t, "lng1")
		lat2 := rapid.Float64Range(-90, 90).Draw(t, "lat2")
		lng2 := rapid.Float64Range(-180, 180).Draw(t, "lng2")

		ab := HaversineKm(lat1, lng1, lat2, lng2)
		ba := HaversineKm(lat2, lng2, lat1, lng1)
		if math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("distance not symmetric: %v vs %v", ab, ba)
		}
		if ab < 0 {
			t.Fatalf("negative distance: %v", ab)
		}
		if self := HaversineKm(lat1, lng1, lat1, lng1); self != 0 {
			t.Fatalf("distance to self not zero: %v", self)
		}
	})
}
