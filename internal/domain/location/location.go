package location

import "time"

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies within the valid WGS84 ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Fix is a single accepted position report from the source.
type Fix struct {
	Coordinate
	AccuracyMeters float64   `json:"accuracyInMeters"`
	Time           time.Time `json:"time"`
}

// Authorization is the permission state of the position source.
type Authorization int

const (
	AuthorizationNotDetermined Authorization = iota
	AuthorizationGranted
	AuthorizationDenied
	AuthorizationRestricted
)

func (a Authorization) String() string {
	switch a {
	case AuthorizationNotDetermined:
		return "not_determined"
	case AuthorizationGranted:
		return "granted"
	case AuthorizationDenied:
		return "denied"
	case AuthorizationRestricted:
		return "restricted"
	default:
		return "unknown"
	}
}

// Granted reports whether position updates may be read.
func (a Authorization) Granted() bool {
	return a == AuthorizationGranted
}

// EventKind discriminates provider events.
type EventKind int

const (
	EventFix EventKind = iota
	EventAuthorizationChange
	EventFailure
)

// Event is published by the provider on every accepted fix, permission
// change, or failure.
type Event struct {
	Kind   EventKind
	Fix    Fix
	Status Authorization
	Err    error
}
