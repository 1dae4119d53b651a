package attendance

import (
	"time"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/location"
)

// CreateLogRequest is the submission payload for a single attendance event.
type CreateLogRequest struct {
	PersonnelID         string    `json:"crmPersonnelId"`
	WorkplaceLocationID string    `json:"workplaceLocationId"`
	EventType           EventType `json:"eventType"`
	Timestamp           time.Time `json:"timestamp"`
	Latitude            float64   `json:"latitude"`
	Longitude           float64   `json:"longitude"`
	AccuracyMeters      *float64  `json:"accuracyInMeters,omitempty"`
	DeviceInfo          *string   `json:"deviceInfo,omitempty"`
	IsManual            bool      `json:"isManual"`
	Note                *string   `json:"note,omitempty"`
}

// Validate checks the request fields before submission.
func (r CreateLogRequest) Validate() error {
	if !r.EventType.Valid() {
		return ErrInvalidEventType
	}
	if r.WorkplaceLocationID == "" {
		return ErrMissingWorkplace
	}
	c := location.Coordinate{Latitude: r.Latitude, Longitude: r.Longitude}
	if !c.Valid() {
		return location.ErrInvalidCoordinate
	}
	return nil
}

// LogEventInput carries the caller-supplied parts of an attendance event;
// identity, timestamp and device descriptor are stamped by the service.
type LogEventInput struct {
	EventType           EventType
	WorkplaceLocationID string
	Coordinate          location.Coordinate
	AccuracyMeters      *float64
	IsManual            bool
	Note                *string
}
