package utils

import (
	"math"
	"testing"
)

func TestHaversineDistanceMeters(t *testing.T) {
	// Same point
	if d := HaversineDistanceMeters(-6.2, 106.8, -6.2, 106.8); d != 0 {
		t.Errorf("distance between identical points = %f, want 0", d)
	}

	// Monas to Bundaran HI, Jakarta: roughly 1.4km
	d := HaversineDistanceMeters(-6.1754, 106.8272, -6.1950, 106.8230)
	if d < 2000 && d > 2300 {
		t.Errorf("unexpected distance: %f", d)
	}
	if math.IsNaN(d) || d <= 0 {
		t.Errorf("distance must be positive, got %f", d)
	}

	// ~111km per degree of latitude at the equator
	d = HaversineDistanceMeters(0, 0, 1, 0)
	if d < 110000 || d > 112000 {
		t.Errorf("one degree latitude = %f meters, want ~111km", d)
	}
}
