package geofence

import (
	"log/slog"
	"sync"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/geofence"
	"github.com/mustafayusufaksoy/camlica360/internal/domain/location"
	"github.com/mustafayusufaksoy/camlica360/internal/pkg/events"
	"github.com/mustafayusufaksoy/camlica360/internal/pkg/geo"
)

// Monitor tracks up to geofence.MaxMonitoredRegions circular regions and
// derives enter/exit crossings from the position fixes fed to Evaluate.
// Crossing state is kept per region so repeated fixes inside a region do
// not re-fire the enter event.
type Monitor struct {
	mu      sync.Mutex
	regions map[string]geofence.Region
	inside  map[string]bool
	hub     *events.Hub[geofence.Event]
}

// NewMonitor creates an empty monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		regions: make(map[string]geofence.Region),
		inside:  make(map[string]bool),
		hub:     events.NewHub[geofence.Event](),
	}
}

// AddRegion registers a region for monitoring. Re-adding a known ID is a
// no-op that reports success. Returns false when the capacity cap is
// reached; the region set is left unchanged in that case.
func (m *Monitor) AddRegion(region geofence.Region) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.regions[region.ID]; ok {
		return true
	}
	if len(m.regions) >= geofence.MaxMonitoredRegions {
		slog.Warn("Geofence capacity reached, region not monitored",
			"regionId", region.ID, "limit", geofence.MaxMonitoredRegions)
		return false
	}

	m.regions[region.ID] = region
	m.inside[region.ID] = false
	slog.Info("Started monitoring region", "regionId", region.ID, "name", region.Name)
	return true
}

// RemoveRegion stops monitoring the given region. Unknown IDs are ignored.
func (m *Monitor) RemoveRegion(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.regions[id]; !ok {
		return
	}
	delete(m.regions, id)
	delete(m.inside, id)
	slog.Info("Stopped monitoring region", "regionId", id)
}

// RemoveAll stops monitoring every region.
func (m *Monitor) RemoveAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regions = make(map[string]geofence.Region)
	m.inside = make(map[string]bool)
}

// MonitoredRegions returns a snapshot of the current region set.
func (m *Monitor) MonitoredRegions() []geofence.Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]geofence.Region, 0, len(m.regions))
	for _, r := range m.regions {
		out = append(out, r)
	}
	return out
}

// Count returns the number of monitored regions.
func (m *Monitor) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.regions)
}

// ContainsCoordinate reports whether the coordinate lies within the named
// region. Unknown regions contain nothing.
func (m *Monitor) ContainsCoordinate(coord location.Coordinate, regionID string) bool {
	m.mu.Lock()
	region, ok := m.regions[regionID]
	m.mu.Unlock()
	if !ok {
		return false
	}
	return geo.Within(coord, region.Center, region.RadiusMeters)
}

// RegionsContaining returns the IDs of all monitored regions containing
// the coordinate.
func (m *Monitor) RegionsContaining(coord location.Coordinate) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, region := range m.regions {
		if geo.Within(coord, region.Center, region.RadiusMeters) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Evaluate compares the fix against every monitored region and publishes
// enter/exit events for the crossings it finds. Regions with an invalid
// center or a non-positive radius are evicted through the monitoring
// failure path.
func (m *Monitor) Evaluate(coord location.Coordinate) {
	m.mu.Lock()
	var fired []geofence.Event
	for id, region := range m.regions {
		if !region.Center.Valid() || region.RadiusMeters <= 0 {
			delete(m.regions, id)
			delete(m.inside, id)
			fired = append(fired, geofence.Event{
				Kind:       geofence.EventMonitoringFailure,
				RegionID:   id,
				RegionName: region.Name,
				Err:        geofence.ErrInvalidRegion,
			})
			continue
		}

		in := geo.Within(coord, region.Center, region.RadiusMeters)
		was := m.inside[id]
		m.inside[id] = in

		switch {
		case in && !was && region.NotifyOnEntry:
			fired = append(fired, geofence.Event{
				Kind: geofence.EventEnter, RegionID: id, RegionName: region.Name,
			})
		case !in && was && region.NotifyOnExit:
			fired = append(fired, geofence.Event{
				Kind: geofence.EventExit, RegionID: id, RegionName: region.Name,
			})
		}
	}
	m.mu.Unlock()

	for _, ev := range fired {
		switch ev.Kind {
		case geofence.EventEnter:
			slog.Info("Entered region", "regionId", ev.RegionID, "name", ev.RegionName)
		case geofence.EventExit:
			slog.Info("Exited region", "regionId", ev.RegionID, "name", ev.RegionName)
		case geofence.EventMonitoringFailure:
			slog.Error("Region monitoring failed", "regionId", ev.RegionID, "error", ev.Err)
		}
		m.hub.Publish(ev)
	}
}

// MonitoringDidFail evicts the region and surfaces the failure to
// subscribers. Unknown IDs are ignored.
func (m *Monitor) MonitoringDidFail(regionID string, err error) {
	m.mu.Lock()
	region, ok := m.regions[regionID]
	if ok {
		delete(m.regions, regionID)
		delete(m.inside, regionID)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	slog.Error("Region monitoring failed", "regionId", regionID, "error", err)
	m.hub.Publish(geofence.Event{
		Kind:       geofence.EventMonitoringFailure,
		RegionID:   regionID,
		RegionName: region.Name,
		Err:        err,
	})
}

// Subscribe registers for geofence events; the returned func cancels the
// subscription.
func (m *Monitor) Subscribe() (chan geofence.Event, func()) {
	return m.hub.Subscribe()
}
