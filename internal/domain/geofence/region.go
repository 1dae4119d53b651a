package geofence

import (
	"github.com/mustafayusufaksoy/camlica360/internal/domain/location"
)

// MaxMonitoredRegions is the hard ceiling on concurrently monitored regions,
// carried over from the platform monitoring limit the mobile clients live
// under so server and device bookkeeping stay in agreement.
const MaxMonitoredRegions = 20

// Region is a circular geofence derived 1:1 from a workplace location.
type Region struct {
	ID            string              `json:"id"`
	Center        location.Coordinate `json:"center"`
	RadiusMeters  float64             `json:"radiusInMeters"`
	Name          string              `json:"name"`
	NotifyOnEntry bool                `json:"notifyOnEntry"`
	NotifyOnExit  bool                `json:"notifyOnExit"`
}

// EventKind discriminates boundary-crossing events.
type EventKind int

const (
	EventEnter EventKind = iota
	EventExit
	EventMonitoringFailure
)

// Event is delivered when a monitored region boundary is crossed, or when
// monitoring for a region fails and the region is evicted.
type Event struct {
	Kind       EventKind
	RegionID   string
	RegionName string
	Err        error
}
