package geofence

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/geofence"
	"github.com/mustafayusufaksoy/camlica360/internal/domain/location"
)

var campusCenter = location.Coordinate{Latitude: 41.0082, Longitude: 28.9784}

func campusRegion(id string) geofence.Region {
	return geofence.Region{
		ID:            id,
		Center:        campusCenter,
		RadiusMeters:  100,
		Name:          "Campus " + id,
		NotifyOnEntry: true,
		NotifyOnExit:  true,
	}
}

// offsetNorth shifts a coordinate north by roughly the given metres.
func offsetNorth(c location.Coordinate, meters float64) location.Coordinate {
	return location.Coordinate{Latitude: c.Latitude + meters/111195.0, Longitude: c.Longitude}
}

func collectEvents(t *testing.T, ch chan geofence.Event, n int) []geofence.Event {
	t.Helper()
	out := make([]geofence.Event, 0, n)
	deadline := time.After(time.Second)
	for len(out) < n {
		select {
		case ev := <-ch:
			out = append(out, ev)
		case <-deadline:
			t.Fatalf("timed out after %d of %d events", len(out), n)
		}
	}
	return out
}

func TestAddRegionCapacityCap(t *testing.T) {
	t.Parallel()

	m := NewMonitor()
	for i := 0; i < geofence.MaxMonitoredRegions; i++ {
		require.True(t, m.AddRegion(campusRegion(fmt.Sprintf("wp-%02d", i))))
	}
	assert.Equal(t, geofence.MaxMonitoredRegions, m.Count())

	assert.False(t, m.AddRegion(campusRegion("wp-overflow")))
	assert.Equal(t, geofence.MaxMonitoredRegions, m.Count(), "region set unchanged past the cap")
}

func TestAddRegionIdempotentAtCapacity(t *testing.T) {
	t.Parallel()

	m := NewMonitor()
	for i := 0; i < geofence.MaxMonitoredRegions; i++ {
		require.True(t, m.AddRegion(campusRegion(fmt.Sprintf("wp-%02d", i))))
	}

	assert.True(t, m.AddRegion(campusRegion("wp-00")), "known ID succeeds even at capacity")
	assert.Equal(t, geofence.MaxMonitoredRegions, m.Count())
}

func TestRemoveRegionUnknownIsNoOp(t *testing.T) {
	t.Parallel()

	m := NewMonitor()
	m.AddRegion(campusRegion("wp-1"))
	m.RemoveRegion("nope")
	assert.Equal(t, 1, m.Count())

	m.RemoveRegion("wp-1")
	assert.Equal(t, 0, m.Count())
}

func TestEvaluateFiresEnterThenExit(t *testing.T) {
	t.Parallel()

	m := NewMonitor()
	m.AddRegion(campusRegion("wp-1"))

	ch, cancel := m.Subscribe()
	defer cancel()

	inside := offsetNorth(campusCenter, 50)
	outside := offsetNorth(campusCenter, 150)

	m.Evaluate(inside)
	m.Evaluate(inside) // still inside, no second enter
	m.Evaluate(outside)

	events := collectEvents(t, ch, 2)
	assert.Equal(t, geofence.EventEnter, events[0].Kind)
	assert.Equal(t, "wp-1", events[0].RegionID)
	assert.Equal(t, geofence.EventExit, events[1].Kind)
	assert.Equal(t, "wp-1", events[1].RegionID)
}

func TestEvaluateNoExitWithoutPriorEnter(t *testing.T) {
	t.Parallel()

	m := NewMonitor()
	m.AddRegion(campusRegion("wp-1"))

	ch, cancel := m.Subscribe()
	defer cancel()

	m.Evaluate(offsetNorth(campusCenter, 150))

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEvaluateEvictsInvalidRegion(t *testing.T) {
	t.Parallel()

	m := NewMonitor()
	bad := campusRegion("wp-bad")
	bad.RadiusMeters = 0
	require.True(t, m.AddRegion(bad))

	ch, cancel := m.Subscribe()
	defer cancel()

	m.Evaluate(campusCenter)

	events := collectEvents(t, ch, 1)
	assert.Equal(t, geofence.EventMonitoringFailure, events[0].Kind)
	assert.ErrorIs(t, events[0].Err, geofence.ErrInvalidRegion)
	assert.Equal(t, 0, m.Count())
}

func TestMonitoringDidFailEvicts(t *testing.T) {
	t.Parallel()

	m := NewMonitor()
	m.AddRegion(campusRegion("wp-1"))

	ch, cancel := m.Subscribe()
	defer cancel()

	cause := errors.New("radio gone")
	m.MonitoringDidFail("wp-1", cause)
	m.MonitoringDidFail("wp-unknown", cause) // ignored

	events := collectEvents(t, ch, 1)
	assert.Equal(t, geofence.EventMonitoringFailure, events[0].Kind)
	assert.Equal(t, "wp-1", events[0].RegionID)
	assert.ErrorIs(t, events[0].Err, cause)
	assert.Equal(t, 0, m.Count())
}

func TestContainsCoordinate(t *testing.T) {
	t.Parallel()

	m := NewMonitor()
	m.AddRegion(campusRegion("wp-1"))

	assert.True(t, m.ContainsCoordinate(offsetNorth(campusCenter, 50), "wp-1"))
	assert.False(t, m.ContainsCoordinate(offsetNorth(campusCenter, 150), "wp-1"))
	assert.False(t, m.ContainsCoordinate(campusCenter, "wp-unknown"))
}

func TestRegionsContaining(t *testing.T) {
	t.Parallel()

	m := NewMonitor()
	m.AddRegion(campusRegion("wp-1"))
	far := campusRegion("wp-2")
	far.Center = offsetNorth(campusCenter, 5000)
	m.AddRegion(far)

	ids := m.RegionsContaining(offsetNorth(campusCenter, 50))
	assert.Equal(t, []string{"wp-1"}, ids)
}
