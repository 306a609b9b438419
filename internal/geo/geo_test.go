package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistanceKm_ZeroForSamePoint(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 0, DistanceKm(12.9716, 77.5946, 12.9716, 77.5946), 1e-9)
}

func TestDistanceKm_Symmetry(t *testing.T) {
	t.Parallel()

	d1 := DistanceKm(12.9716, 77.5946, 13.0827, 80.2707)
	d2 := DistanceKm(13.0827, 80.2707, 12.9716, 77.5946)
	require.InDelta(t, d1, d2, 1e-9)
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	t.Parallel()

	// Bangalore -> Chennai, roughly 290 km great-circle.
	d := DistanceKm(12.9716, 77.5946, 13.0827, 80.2707)
	require.InDelta(t, 290, d, 5)
}

func TestDistanceKm_TriangleInequality(t *testing.T) {
	t.Parallel()

	a := [2]float64{12.9716, 77.5946}
	b := [2]float64{13.0827, 80.2707}
	c := [2]float64{12.2958, 76.6394}

	ab := DistanceKm(a[0], a[1], b[0], b[1])
	bc := DistanceKm(b[0], b[1], c[0], c[1])
	ac := DistanceKm(a[0], a[1], c[0], c[1])

	require.LessOrEqual(t, ac, ab+bc+1e-6)
}

func TestETAMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		distanceKm float64
		speedKmh   float64
		want       int
	}{
		{"10km at 30kmh", 10, 30, 20},
		{"rounds up", 10, 29, 21},
		{"zero distance", 0, 30, 0},
		{"zero speed", 10, 0, 0},
		{"negative speed", 10, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ETAMinutes(tt.distanceKm, tt.speedKmh))
		})
	}
}

func TestMPSToKmh(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 18, MPSToKmh(5), 1e-9)
	require.InDelta(t, 0, MPSToKmh(0), 1e-9)
}
