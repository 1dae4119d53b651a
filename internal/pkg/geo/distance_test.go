package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/location"
)

func TestDistance_ZeroForSamePoint(t *testing.T) {
	t.Parallel()
	p := location.Coordinate{Latitude: 41.0213, Longitude: 29.0587}
	assert.InDelta(t, 0, Distance(p, p), 0.001)
}

func TestDistance_KnownPairs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to location.Coordinate
		want     float64 // meters
		delta    float64
	}{
		{
			name: "istanbul to ankara",
			from: location.Coordinate{Latitude: 41.0082, Longitude: 28.9784},
			to:   location.Coordinate{Latitude: 39.9334, Longitude: 32.8597},
			want: 349000, delta: 5000,
		},
		{
			name: "one degree of latitude",
			from: location.Coordinate{Latitude: 0, Longitude: 0},
			to:   location.Coordinate{Latitude: 1, Longitude: 0},
			want: 111195, delta: 200,
		},
		{
			name: "short hop across a campus",
			from: location.Coordinate{Latitude: 41.02130, Longitude: 29.05870},
			to:   location.Coordinate{Latitude: 41.02220, Longitude: 29.05870},
			want: 100, delta: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.from, tt.to)
			assert.InDelta(t, tt.want, got, tt.delta)
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	t.Parallel()
	a := location.Coordinate{Latitude: 41.0082, Longitude: 28.9784}
	b := location.Coordinate{Latitude: 39.9334, Longitude: 32.8597}
	assert.InDelta(t, Distance(a, b), Distance(b, a), 0.001)
}

func TestWithin(t *testing.T) {
	t.Parallel()
	center := location.Coordinate{Latitude: 41.0213, Longitude: 29.0587}
	// ~50m north of center
	near := location.Coordinate{Latitude: 41.02175, Longitude: 29.0587}
	// ~150m north of center
	far := location.Coordinate{Latitude: 41.02265, Longitude: 29.0587}

	assert.True(t, Within(near, center, 100))
	assert.False(t, Within(far, center, 100))
}
