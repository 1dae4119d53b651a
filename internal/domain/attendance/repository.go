package attendance

import (
	"context"
	"time"
)

// QueueRepository is the durable store for the offline queue. Every mutation
// is persisted before the call returns, so a process restart never loses a
// pending event. Entries are kept in FIFO enqueue order.
type QueueRepository interface {
	// Enqueue appends a pending log to the queue.
	Enqueue(ctx context.Context, log PendingLog) error

	// Remove deletes a pending log by its local id. Removing an absent id is
	// not an error.
	Remove(ctx context.Context, id string) error

	// List returns all pending logs in enqueue order.
	List(ctx context.Context) ([]PendingLog, error)

	// Count returns the number of pending logs.
	Count(ctx context.Context) (int, error)
}

// Submitter is the transport collaborator that delivers events to the
// backend. Failures carry the typed submission taxonomy from pkg/apiclient;
// timeouts are owned by the transport.
type Submitter interface {
	// SubmitAttendanceLog submits one event and returns the confirmed log.
	SubmitAttendanceLog(ctx context.Context, req CreateLogRequest) (Log, error)

	// GetAttendanceLogs returns confirmed logs for a personnel in [from, to).
	GetAttendanceLogs(ctx context.Context, personnelID string, from, to time.Time) ([]Log, error)
}
