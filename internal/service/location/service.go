package location

import (
	"log/slog"
	"sync"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/location"
	"github.com/mustafayusufaksoy/camlica360/internal/pkg/events"
)

// Service is the location provider: it owns the permission state machine
// around a platform Source and fans accepted fixes and state changes out to
// subscribers. Permission and availability problems become observable state,
// never aborts - a long-lived subscription has no caller to throw to.
type Service struct {
	source location.Source
	hub    *events.Hub[location.Event]

	mu        sync.Mutex
	current   *location.Fix
	status    location.Authorization
	available bool
	lastErr   error
}

// NewService creates a provider around the given source.
func NewService(source location.Source) *Service {
	return &Service{
		source: source,
		hub:    events.NewHub[location.Event](),
		status: source.Authorization(),
	}
}

// RequestPermission triggers the platform permission prompt. Idempotent:
// when access is already granted it simply (re)starts updates.
func (s *Service) RequestPermission(always bool) {
	switch s.source.Authorization() {
	case location.AuthorizationNotDetermined:
		status := s.source.RequestAccess(always)
		s.setStatus(status)
		if status.Granted() {
			s.StartUpdates()
		} else {
			s.fail(statusError(status))
		}
	case location.AuthorizationDenied:
		s.fail(location.ErrPermissionDenied)
	case location.AuthorizationRestricted:
		s.fail(location.ErrPermissionRestricted)
	case location.AuthorizationGranted:
		s.setStatus(location.AuthorizationGranted)
		s.StartUpdates()
	}
}

// StartUpdates begins continuous position reporting. When permission is
// missing or the source cannot be opened it records an observable
// unavailable state instead of returning an error.
func (s *Service) StartUpdates() {
	if !s.source.Authorization().Granted() {
		s.setAvailable(false)
		s.fail(location.ErrPermissionDenied)
		return
	}

	if err := s.source.Start(s.onFix, s.onSourceError); err != nil {
		s.setAvailable(false)
		s.fail(location.ErrServicesDisabled)
		slog.Warn("Location source unavailable", "error", err)
		return
	}
	s.setAvailable(true)
	slog.Info("Location updates started")
}

// StopUpdates ends continuous position reporting.
func (s *Service) StopUpdates() {
	s.source.Stop()
	s.setAvailable(false)
	slog.Info("Location updates stopped")
}

// LastKnown returns the most recent accepted fix, if any.
func (s *Service) LastKnown() (location.Fix, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return location.Fix{}, false
	}
	return *s.current, true
}

// Status returns the current permission state.
func (s *Service) Status() location.Authorization {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Available reports whether updates are currently flowing.
func (s *Service) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

// LastError returns the most recent location-domain error, if any.
func (s *Service) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe registers for provider events; the returned func cancels the
// subscription.
func (s *Service) Subscribe() (chan location.Event, func()) {
	return s.hub.Subscribe()
}

func (s *Service) onFix(fix location.Fix) {
	if !fix.Coordinate.Valid() {
		return
	}

	s.mu.Lock()
	s.current = &fix
	s.mu.Unlock()

	slog.Debug("Location updated", "lat", fix.Latitude, "lon", fix.Longitude)
	s.hub.Publish(location.Event{Kind: location.EventFix, Fix: fix})
}

func (s *Service) onSourceError(err error) {
	s.fail(err)
	slog.Warn("Location source error", "error", err)
}

func (s *Service) setStatus(status location.Authorization) {
	s.mu.Lock()
	changed := s.status != status
	s.status = status
	s.mu.Unlock()

	if changed {
		slog.Info("Location authorization changed", "status", status.String())
		s.hub.Publish(location.Event{Kind: location.EventAuthorizationChange, Status: status})
	}
}

func (s *Service) setAvailable(available bool) {
	s.mu.Lock()
	s.available = available
	s.mu.Unlock()
}

func (s *Service) fail(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.hub.Publish(location.Event{Kind: location.EventFailure, Err: err})
}

func statusError(status location.Authorization) error {
	if status == location.AuthorizationRestricted {
		return location.ErrPermissionRestricted
	}
	return location.ErrPermissionDenied
}
