package geofence

import "errors"

// Geofence domain errors
var (
	ErrCapacityExceeded = errors.New("monitored region limit reached")
	ErrRegionNotFound   = errors.New("region is not monitored")
	ErrInvalidRegion    = errors.New("region has an invalid center or radius")
	ErrMonitoringFailed = errors.New("region monitoring failed")
)
