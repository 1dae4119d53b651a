package workplace

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/geofence"
	"github.com/mustafayusufaksoy/camlica360/internal/domain/location"
	"github.com/mustafayusufaksoy/camlica360/internal/domain/workplace"
	"github.com/mustafayusufaksoy/camlica360/internal/pkg/geo"
)

// CompanySource yields the company scope for workplace fetches.
type CompanySource interface {
	CompanyID() string
}

// RegionMonitor is the slice of the geofence monitor the cache drives.
type RegionMonitor interface {
	RemoveAll()
	AddRegion(region geofence.Region) bool
}

// Service caches the company's workplace locations and projects the
// active ones onto the geofence monitor.
type Service struct {
	fetcher workplace.Fetcher
	company CompanySource
	monitor RegionMonitor

	mu    sync.RWMutex
	cache []workplace.Location
}

// NewService creates the workplace cache.
func NewService(fetcher workplace.Fetcher, company CompanySource, monitor RegionMonitor) *Service {
	return &Service{
		fetcher: fetcher,
		company: company,
		monitor: monitor,
	}
}

// FetchAll pulls the company's active workplaces and replaces the cache
// wholesale. On failure the previous cache is kept.
func (s *Service) FetchAll(ctx context.Context) ([]workplace.Location, error) {
	companyID := s.company.CompanyID()
	locations, err := s.fetcher.FetchWorkplaceLocations(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workplace locations: %w", err)
	}

	s.mu.Lock()
	s.cache = locations
	s.mu.Unlock()

	slog.Info("Workplace locations refreshed", "count", len(locations), "companyId", companyID)
	return locations, nil
}

// GetAll returns the cached locations, fetching once when the cache is
// empty.
func (s *Service) GetAll(ctx context.Context) ([]workplace.Location, error) {
	s.mu.RLock()
	cached := s.cache
	s.mu.RUnlock()
	if len(cached) > 0 {
		return cached, nil
	}
	return s.FetchAll(ctx)
}

// GetByID resolves a single workplace, preferring the cache and falling
// back to a direct fetch for IDs the cache does not hold.
func (s *Service) GetByID(ctx context.Context, id string) (workplace.Location, error) {
	s.mu.RLock()
	for _, l := range s.cache {
		if l.ID == id {
			s.mu.RUnlock()
			return l, nil
		}
	}
	s.mu.RUnlock()

	l, err := s.fetcher.GetWorkplaceLocation(ctx, id)
	if err != nil {
		return workplace.Location{}, fmt.Errorf("failed to get workplace location %s: %w", id, err)
	}
	return l, nil
}

// Cached returns a snapshot of the cache without fetching.
func (s *Service) Cached() []workplace.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]workplace.Location, len(s.cache))
	copy(out, s.cache)
	return out
}

// SetupGeofences clears the monitor and registers a region per active
// location, in input order, until the monitor refuses more. Returns the
// number of regions registered.
func (s *Service) SetupGeofences(locations []workplace.Location) int {
	s.monitor.RemoveAll()

	added := 0
	for _, l := range locations {
		if !l.IsActive {
			continue
		}
		ok := s.monitor.AddRegion(geofence.Region{
			ID:            l.ID,
			Center:        l.Coordinate(),
			RadiusMeters:  float64(l.RadiusMeters),
			Name:          l.Name,
			NotifyOnEntry: true,
			NotifyOnExit:  true,
		})
		if ok {
			added++
		}
	}

	slog.Info("Geofences configured", "monitored", added, "candidates", len(locations))
	return added
}

// Nearest returns the cached location closest to the coordinate, or nil
// when the cache is empty. Considers every cached location, monitored or
// not.
func (s *Service) Nearest(coord location.Coordinate) *workplace.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *workplace.Location
	bestDist := 0.0
	for i := range s.cache {
		d := geo.Distance(coord, s.cache[i].Coordinate())
		if best == nil || d < bestDist {
			best = &s.cache[i]
			bestDist = d
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

// Containing returns the first cached location, in cache order, whose
// radius contains the coordinate, or nil when none does.
func (s *Service) Containing(coord location.Coordinate) *workplace.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.cache {
		if geo.Within(coord, s.cache[i].Coordinate(), float64(s.cache[i].RadiusMeters)) {
			out := s.cache[i]
			return &out
		}
	}
	return nil
}
