package workplace

import (
	"time"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/location"
)

// Location is a registered workplace location. Created by the backend and
// read-only on the device; the cache replaces its copy wholesale on fetch.
type Location struct {
	ID                    string     `json:"id"`
	CompanyID             string     `json:"companyId"`
	Name                  string     `json:"name"`
	Address               string     `json:"address"`
	Latitude              float64    `json:"latitude"`
	Longitude             float64    `json:"longitude"`
	RadiusMeters          int        `json:"radiusInMeters"`
	IsActive              bool       `json:"isActive"`
	Notes                 *string    `json:"notes,omitempty"`
	AssignedEmployeeCount int        `json:"assignedEmployeeCount"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             *time.Time `json:"updatedAt,omitempty"`
}

// Coordinate returns the workplace center.
func (l Location) Coordinate() location.Coordinate {
	return location.Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}
