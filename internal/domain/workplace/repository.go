package workplace

import "context"

// Fetcher retrieves workplace locations from the backend. Implemented by the
// API client; injected so tests can substitute a fake.
type Fetcher interface {
	// FetchWorkplaceLocations returns the active workplace locations for a
	// company.
	FetchWorkplaceLocations(ctx context.Context, companyID string) ([]Location, error)

	// GetWorkplaceLocation returns a single workplace location by id.
	GetWorkplaceLocation(ctx context.Context, id string) (Location, error)
}
