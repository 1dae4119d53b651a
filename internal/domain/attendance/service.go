package attendance

import (
	"context"
	"time"
)

// Service defines the attendance event log with its offline queue.
type Service interface {
	// LogEvent submits a check-in/check-out event. On a transient failure
	// (no connectivity, timeout) the payload is durably enqueued and the
	// transport error is returned unchanged, so the caller can report
	// "saved offline" rather than success. Non-transient failures are
	// surfaced without enqueueing.
	LogEvent(ctx context.Context, input LogEventInput) (Log, error)

	// TodayLogs returns the confirmed logs for the current local day.
	TodayLogs(ctx context.Context) ([]Log, error)

	// LogsBetween returns confirmed logs in [from, to).
	LogsBetween(ctx context.Context, from, to time.Time) ([]Log, error)

	// PendingLogs returns a read-only snapshot of the offline queue.
	PendingLogs(ctx context.Context) ([]PendingLog, error)

	// PendingCount returns the offline queue size.
	PendingCount(ctx context.Context) (int, error)

	// SyncPendingLogs drains the queue in FIFO order. A drain already in
	// flight makes the call a no-op. Entries that submit successfully are
	// removed and the removal persisted before any error is returned; a
	// partially failed pass returns a *SyncError.
	SyncPendingLogs(ctx context.Context) error
}
