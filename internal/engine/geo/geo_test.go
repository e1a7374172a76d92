package geo

import (
	"math"
	"testing"
)

func TestDistanceZeroForIdenticalPoints(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{-6.8, 39.28},
		{45.5, -73.55},
		{90, 180},
	}

	for _, p := range points {
		if d := Distance(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("Distance(%v, %v, same) = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	d1 := Distance(-6.7924, 39.2083, -6.8160, 39.2803)
	d2 := Distance(-6.8160, 39.2803, -6.7924, 39.2083)

	if d1 != d2 {
		t.Errorf("distance not symmetric: %v != %v", d1, d2)
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// Paris to London, roughly 344 km great-circle
	d := Distance(48.8566, 2.3522, 51.5074, -0.1278)
	if math.Abs(d-344) > 2 {
		t.Errorf("Paris-London distance = %v km, want ~344 km", d)
	}
}

func TestDistanceOneDegreeLatitude(t *testing.T) {
	// One degree of latitude is ~111.2 km regardless of longitude
	d := Distance(0, 30, 1, 30)
	if math.Abs(d-111.2) > 0.3 {
		t.Errorf("one degree latitude = %v km, want ~111.2 km", d)
	}
}

func TestValidCoordinate(t *testing.T) {
	cases := []struct {
		lat, lng float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.1, 0, false},
		{-90.1, 0, false},
		{0, 180.5, false},
		{0, -180.5, false},
	}

	for _, c := range cases {
		if got := ValidCoordinate(c.lat, c.lng); got != c.want {
			t.Errorf("ValidCoordinate(%v, %v) = %v, want %v", c.lat, c.lng, got, c.want)
		}
	}
}
