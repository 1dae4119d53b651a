package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/attendance"
	"github.com/mustafayusufaksoy/camlica360/internal/domain/geofence"
	"github.com/mustafayusufaksoy/camlica360/internal/domain/location"
	"github.com/mustafayusufaksoy/camlica360/internal/domain/workplace"
	"github.com/mustafayusufaksoy/camlica360/internal/pkg/apiclient"
)

const refreshTimeout = 15 * time.Second

// LocationProvider is the slice of the location service the tracker drives.
type LocationProvider interface {
	RequestPermission(always bool)
	StartUpdates()
	StopUpdates()
	LastKnown() (location.Fix, bool)
	Status() location.Authorization
	Subscribe() (chan location.Event, func())
}

// GeofenceWatcher is the slice of the geofence monitor the tracker drives.
// Evaluate is only ever called from the tracker's event loop, so crossing
// detection stays serialized.
type GeofenceWatcher interface {
	Evaluate(coord location.Coordinate)
	RemoveAll()
	Subscribe() (chan geofence.Event, func())
}

// WorkplaceCache is the slice of the workplace service the tracker uses.
type WorkplaceCache interface {
	GetAll(ctx context.Context) ([]workplace.Location, error)
	GetByID(ctx context.Context, id string) (workplace.Location, error)
	SetupGeofences(locations []workplace.Location) int
	Containing(coord location.Coordinate) *workplace.Location
}

// Snapshot is a point-in-time view of the tracker state.
type Snapshot struct {
	Tracking        bool                   `json:"tracking"`
	Authorization   string                 `json:"authorization"`
	Fix             *location.Fix          `json:"fix,omitempty"`
	InsideWorkplace bool                   `json:"insideWorkplace"`
	Workplace       *workplace.Location    `json:"workplace,omitempty"`
	LastEventType   *attendance.EventType  `json:"lastEventType,omitempty"`
	TodayCount      int                    `json:"todayCount"`
	PendingCount    int                    `json:"pendingCount"`
	LastError       string                 `json:"lastError,omitempty"`
}

// Service coordinates the location provider, geofence monitor, workplace
// cache and attendance log into one tracking session. All session state
// lives behind one mutex; the event loop is the only writer for
// position-derived fields.
type Service struct {
	provider   LocationProvider
	monitor    GeofenceWatcher
	workplaces WorkplaceCache
	attendance attendance.Service

	refreshInterval time.Duration

	mu        sync.Mutex
	tracking  bool
	fix       *location.Fix
	inside    bool
	workplace *workplace.Location
	today     []attendance.Log
	lastEvent *attendance.EventType
	pending   int
	lastError string

	stop     chan struct{}
	unsubLoc func()
	unsubGeo func()
	wg       sync.WaitGroup
}

// NewService creates the tracker coordinator.
func NewService(
	provider LocationProvider,
	monitor GeofenceWatcher,
	workplaces WorkplaceCache,
	attendanceSvc attendance.Service,
	refreshInterval time.Duration,
) *Service {
	if refreshInterval <= 0 {
		refreshInterval = 30 * time.Second
	}
	return &Service{
		provider:        provider,
		monitor:         monitor,
		workplaces:      workplaces,
		attendance:      attendanceSvc,
		refreshInterval: refreshInterval,
	}
}

// StartTracking begins a tracking session: permission request, geofence
// setup, continuous updates, and the periodic state refresh. Calling it
// while already tracking is a no-op.
func (s *Service) StartTracking(ctx context.Context) error {
	s.mu.Lock()
	if s.tracking {
		s.mu.Unlock()
		return nil
	}
	s.tracking = true
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	s.provider.RequestPermission(true)

	if err := s.reloadGeofences(ctx); err != nil {
		s.setLastError(err.Error())
		slog.Warn("Geofence setup failed, tracking continues without fences", "error", err)
	}

	s.provider.StartUpdates()

	locCh, unsubLoc := s.provider.Subscribe()
	geoCh, unsubGeo := s.monitor.Subscribe()
	s.mu.Lock()
	s.unsubLoc = unsubLoc
	s.unsubGeo = unsubGeo
	s.mu.Unlock()

	s.wg.Add(2)
	go s.loop(locCh, geoCh, stop)
	go s.refreshLoop(stop)

	s.RefreshToday(ctx)
	slog.Info("Tracking started")
	return nil
}

// StopTracking ends the session and releases the event subscriptions.
func (s *Service) StopTracking() {
	s.mu.Lock()
	if !s.tracking {
		s.mu.Unlock()
		return
	}
	s.tracking = false
	close(s.stop)
	unsubLoc, unsubGeo := s.unsubLoc, s.unsubGeo
	s.unsubLoc, s.unsubGeo = nil, nil
	s.mu.Unlock()

	if unsubLoc != nil {
		unsubLoc()
	}
	if unsubGeo != nil {
		unsubGeo()
	}
	s.provider.StopUpdates()
	s.monitor.RemoveAll()
	s.wg.Wait()

	s.mu.Lock()
	s.fix = nil
	s.inside = false
	s.workplace = nil
	s.mu.Unlock()
	slog.Info("Tracking stopped")
}

// CheckIn records a manual check-in at the current position.
func (s *Service) CheckIn(ctx context.Context, note *string) (attendance.Log, error) {
	return s.recordEvent(ctx, attendance.EventCheckIn, note)
}

// CheckOut records a manual check-out at the current position.
func (s *Service) CheckOut(ctx context.Context, note *string) (attendance.Log, error) {
	return s.recordEvent(ctx, attendance.EventCheckOut, note)
}

func (s *Service) recordEvent(ctx context.Context, eventType attendance.EventType, note *string) (attendance.Log, error) {
	s.mu.Lock()
	if !s.tracking {
		s.mu.Unlock()
		return attendance.Log{}, attendance.ErrNotTracking
	}
	if s.fix == nil {
		s.mu.Unlock()
		return attendance.Log{}, attendance.ErrNoFix
	}
	if !s.inside || s.workplace == nil {
		s.mu.Unlock()
		return attendance.Log{}, attendance.ErrOutsideWorkplace
	}
	fix := *s.fix
	wp := *s.workplace
	s.mu.Unlock()

	accuracy := fix.AccuracyMeters
	logged, err := s.attendance.LogEvent(ctx, attendance.LogEventInput{
		EventType:           eventType,
		WorkplaceLocationID: wp.ID,
		Coordinate:          fix.Coordinate,
		AccuracyMeters:      &accuracy,
		IsManual:            true,
		Note:                note,
	})

	// The event took effect once it is either confirmed or queued offline,
	// so the session's last-event marker advances in both cases.
	if err == nil || apiclient.IsTransient(err) {
		s.mu.Lock()
		et := eventType
		s.lastEvent = &et
		s.mu.Unlock()
		s.RefreshToday(ctx)
	}
	return logged, err
}

// SyncNow drains the offline queue and refreshes the session counters.
func (s *Service) SyncNow(ctx context.Context) error {
	err := s.attendance.SyncPendingLogs(ctx)
	s.RefreshToday(ctx)
	return err
}

// RefreshToday reloads today's confirmed logs and the pending count.
// Failures are recorded on the snapshot rather than returned; the session
// keeps running on stale counters.
func (s *Service) RefreshToday(ctx context.Context) {
	logs, err := s.attendance.TodayLogs(ctx)
	if err != nil {
		s.setLastError(err.Error())
		slog.Warn("Failed to load today's logs", "error", err)
	} else {
		s.mu.Lock()
		s.today = logs
		if n := len(logs); n > 0 {
			et := logs[n-1].EventType
			s.lastEvent = &et
		}
		s.mu.Unlock()
	}

	count, err := s.attendance.PendingCount(ctx)
	if err != nil {
		s.setLastError(err.Error())
		return
	}
	s.mu.Lock()
	s.pending = count
	s.mu.Unlock()
}

// TodayLogs returns the most recently loaded confirmed logs for today.
func (s *Service) TodayLogs() []attendance.Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]attendance.Log, len(s.today))
	copy(out, s.today)
	return out
}

// Status returns a snapshot of the current session state.
func (s *Service) Status() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Tracking:        s.tracking,
		Authorization:   s.provider.Status().String(),
		InsideWorkplace: s.inside,
		TodayCount:      len(s.today),
		PendingCount:    s.pending,
		LastError:       s.lastError,
	}
	if s.fix != nil {
		fix := *s.fix
		snap.Fix = &fix
	}
	if s.workplace != nil {
		wp := *s.workplace
		snap.Workplace = &wp
	}
	if s.lastEvent != nil {
		et := *s.lastEvent
		snap.LastEventType = &et
	}
	return snap
}

func (s *Service) reloadGeofences(ctx context.Context) error {
	locations, err := s.workplaces.GetAll(ctx)
	if err != nil {
		return err
	}
	s.workplaces.SetupGeofences(locations)
	return nil
}

func (s *Service) loop(locCh chan location.Event, geoCh chan geofence.Event, stop chan struct{}) {
	defer s.wg.Done()
	for {
		select {
		case ev, ok := <-locCh:
			if !ok {
				return
			}
			s.handleLocationEvent(ev)
		case ev, ok := <-geoCh:
			if !ok {
				return
			}
			s.handleGeofenceEvent(ev)
		case <-stop:
			return
		}
	}
}

func (s *Service) handleLocationEvent(ev location.Event) {
	switch ev.Kind {
	case location.EventFix:
		coord := ev.Fix.Coordinate
		wp := s.workplaces.Containing(coord)

		s.mu.Lock()
		fix := ev.Fix
		s.fix = &fix
		s.inside = wp != nil
		s.workplace = wp
		s.mu.Unlock()

		s.monitor.Evaluate(coord)
	case location.EventAuthorizationChange:
		slog.Info("Authorization changed during session", "status", ev.Status.String())
	case location.EventFailure:
		if ev.Err != nil {
			s.setLastError(ev.Err.Error())
		}
	}
}

func (s *Service) handleGeofenceEvent(ev geofence.Event) {
	switch ev.Kind {
	case geofence.EventEnter:
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		wp, err := s.workplaces.GetByID(ctx, ev.RegionID)
		cancel()
		if err != nil {
			slog.Warn("Entered unknown region", "regionId", ev.RegionID, "error", err)
			return
		}
		s.mu.Lock()
		s.inside = true
		s.workplace = &wp
		s.mu.Unlock()
	case geofence.EventExit:
		s.mu.Lock()
		if s.workplace != nil && s.workplace.ID == ev.RegionID {
			s.inside = false
			s.workplace = nil
		}
		s.mu.Unlock()
	case geofence.EventMonitoringFailure:
		// Containment from raw fixes keeps working for the evicted region's
		// workplace, so this only surfaces on the snapshot.
		if ev.Err != nil {
			s.setLastError(ev.Err.Error())
		}
	}
}

func (s *Service) refreshLoop(stop chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			s.RefreshToday(ctx)
			cancel()
		case <-stop:
			return
		}
	}
}

func (s *Service) setLastError(msg string) {
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
}
