package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrNoIdentity       = errors.New("no authenticated user identity available")
	ErrInvalidEventType = errors.New("invalid attendance event type")
	ErrMissingWorkplace = errors.New("workplace location id is required")
	ErrOutsideWorkplace = errors.New("not inside any workplace location")
	ErrNoFix            = errors.New("current location is not available")
	ErrNotTracking      = errors.New("attendance tracking is not active")

	// ErrQueuePersistFailed means an event could neither be submitted nor
	// durably queued; the event is lost and must not be reported as saved
	// offline.
	ErrQueuePersistFailed = errors.New("failed to persist attendance event to the offline queue")
)

// SyncError reports a partially failed queue drain. The entries that
// succeeded have already been removed and persisted by the time it is
// returned.
type SyncError struct {
	Attempted int
	Failed    int
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("failed to sync %d of %d pending logs", e.Failed, e.Attempted)
}
