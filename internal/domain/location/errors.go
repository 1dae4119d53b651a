package location

import "errors"

// Location domain errors. Permission and availability problems are expected
// runtime states, reported through these sentinels rather than aborting
// tracking.
var (
	ErrPermissionDenied     = errors.New("location permission denied")
	ErrPermissionRestricted = errors.New("location permission restricted")
	ErrServicesDisabled     = errors.New("location services disabled")
	ErrNoFixAvailable       = errors.New("no location fix available")
	ErrInvalidCoordinate    = errors.New("invalid coordinate")
)
