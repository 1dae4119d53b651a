package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/attendance"
	"github.com/mustafayusufaksoy/camlica360/internal/pkg/apiclient"
	"github.com/mustafayusufaksoy/camlica360/internal/pkg/identity"
)

type service struct {
	queue     attendance.QueueRepository
	submitter attendance.Submitter
	identity  identity.Provider

	deviceInfo string
	now        func() time.Time

	mu      sync.Mutex
	syncing bool
}

// NewService creates the attendance event log backed by the given queue
// and submission transport.
func NewService(queue attendance.QueueRepository, submitter attendance.Submitter, ident identity.Provider) attendance.Service {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return &service{
		queue:      queue,
		submitter:  submitter,
		identity:   ident,
		deviceInfo: fmt.Sprintf("%s/%s - %s", runtime.GOOS, runtime.GOARCH, host),
		now:        time.Now,
	}
}

func (s *service) LogEvent(ctx context.Context, input attendance.LogEventInput) (attendance.Log, error) {
	personnelID := s.identity.CurrentUserID()
	if personnelID == "" {
		return attendance.Log{}, attendance.ErrNoIdentity
	}

	deviceInfo := s.deviceInfo
	req := attendance.CreateLogRequest{
		PersonnelID:         personnelID,
		WorkplaceLocationID: input.WorkplaceLocationID,
		EventType:           input.EventType,
		Timestamp:           s.now().UTC(),
		Latitude:            input.Coordinate.Latitude,
		Longitude:           input.Coordinate.Longitude,
		AccuracyMeters:      input.AccuracyMeters,
		DeviceInfo:          &deviceInfo,
		IsManual:            input.IsManual,
		Note:                input.Note,
	}
	if err := req.Validate(); err != nil {
		return attendance.Log{}, err
	}

	logged, err := s.submitter.SubmitAttendanceLog(ctx, req)
	if err == nil {
		slog.Info("Attendance event submitted",
			"eventType", req.EventType.String(), "workplaceId", req.WorkplaceLocationID)
		return logged, nil
	}

	if !apiclient.IsTransient(err) {
		return attendance.Log{}, err
	}

	pending := attendance.PendingLog{
		ID:        uuid.NewString(),
		Request:   req,
		CreatedAt: s.now().UTC(),
	}
	if qErr := s.queue.Enqueue(ctx, pending); qErr != nil {
		// The event is gone: the submission failed and the queue refused it.
		// Surface a non-transient error so nothing upstream reports it as
		// saved offline.
		slog.Error("Failed to queue attendance event after transport failure",
			"queueError", qErr, "transportError", err)
		return attendance.Log{}, fmt.Errorf("%w: %v", attendance.ErrQueuePersistFailed, qErr)
	}
	slog.Warn("Offline - attendance event saved to queue",
		"pendingId", pending.ID, "eventType", req.EventType.String())
	return attendance.Log{}, err
}

func (s *service) TodayLogs(ctx context.Context) ([]attendance.Log, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.LogsBetween(ctx, start, start.Add(24*time.Hour))
}

func (s *service) LogsBetween(ctx context.Context, from, to time.Time) ([]attendance.Log, error) {
	personnelID := s.identity.CurrentUserID()
	if personnelID == "" {
		return nil, attendance.ErrNoIdentity
	}

	logs, err := s.submitter.GetAttendanceLogs(ctx, personnelID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance logs: %w", err)
	}
	return logs, nil
}

func (s *service) PendingLogs(ctx context.Context) ([]attendance.PendingLog, error) {
	return s.queue.List(ctx)
}

func (s *service) PendingCount(ctx context.Context) (int, error) {
	return s.queue.Count(ctx)
}

func (s *service) SyncPendingLogs(ctx context.Context) error {
	s.mu.Lock()
	if s.syncing {
		s.mu.Unlock()
		return nil
	}
	s.syncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.syncing = false
		s.mu.Unlock()
	}()

	pending, err := s.queue.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending logs: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.Info("Syncing pending attendance logs", "count", len(pending))

	failed := 0
	for _, p := range pending {
		if _, err := s.submitter.SubmitAttendanceLog(ctx, p.Request); err != nil {
			failed++
			slog.Warn("Pending log submission failed", "pendingId", p.ID, "error", err)
			continue
		}
		if err := s.queue.Remove(ctx, p.ID); err != nil {
			return fmt.Errorf("failed to remove synced log %s: %w", p.ID, err)
		}
	}

	if failed > 0 {
		return &attendance.SyncError{Attempted: len(pending), Failed: failed}
	}
	slog.Info("Pending attendance logs synced", "count", len(pending))
	return nil
}
