package geo

import (
	"math"
	"testing"
)

func TestHaversineZeroDistance(t *testing.T) {
	if d := HaversineKm(0, 0, 0, 0); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
	if d := HaversineKm(-33.92, 18.42, -33.92, 18.42); d != 0 {
		t.Errorf("same point should be 0, got %v", d)
	}
}

func TestHaversineSymmetry(t *testing.T) {
	a := HaversineKm(-33.9249, 18.4241, -26.2041, 28.0473)
	b := HaversineKm(-26.2041, 28.0473, -33.9249, 18.4241)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("not symmetric: %v vs %v", a, b)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Cape Town to Johannesburg, roughly 1260 km.
	d := HaversineKm(-33.9249, 18.4241, -26.2041, 28.0473)
	if d < 1200 || d > 1320 {
		t.Errorf("expected ~1260km, got %v", d)
	}
}

func TestHaversineQuarterMeridian(t *testing.T) {
	// Equator to pole along a meridian is a quarter of the circumference.
	d := HaversineKm(0, 0, 90, 0)
	want := earthRadiusKm * math.Pi / 2
	if math.Abs(d-want) > 1e-6 {
		t.Errorf("expected %v, got %v", want, d)
	}
}

func TestRoundKm(t *testing.T) {
	if got := RoundKm(12.3456); got != 12.35 {
		t.Errorf("expected 12.35, got %v", got)
	}
}
