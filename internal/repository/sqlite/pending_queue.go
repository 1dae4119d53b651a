package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/attendance"
	"github.com/mustafayusufaksoy/camlica360/internal/pkg/database"
)

// PendingQueueRepository persists the offline attendance queue. Rows are
// ordered by an autoincrement sequence so FIFO order survives restarts.
type PendingQueueRepository struct {
	db *database.DB
}

// NewPendingQueueRepository creates the repository.
func NewPendingQueueRepository(db *database.DB) *PendingQueueRepository {
	return &PendingQueueRepository{db: db}
}

// Enqueue appends a pending log to the queue.
func (r *PendingQueueRepository) Enqueue(ctx context.Context, log attendance.PendingLog) error {
	payload, err := json.Marshal(log.Request)
	if err != nil {
		return fmt.Errorf("failed to encode pending log payload: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pending_attendance_logs (id, payload, created_at)
		VALUES (?, ?, ?)
	`, log.ID, string(payload), log.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to enqueue pending log: %w", err)
	}
	return nil
}

// Remove deletes a pending log by its local id. Absent ids are a no-op.
func (r *PendingQueueRepository) Remove(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM pending_attendance_logs WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to remove pending log: %w", err)
	}
	return nil
}

// List returns all pending logs in enqueue order.
func (r *PendingQueueRepository) List(ctx context.Context) ([]attendance.PendingLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, payload, created_at
		FROM pending_attendance_logs
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending logs: %w", err)
	}
	defer rows.Close()

	logs := make([]attendance.PendingLog, 0)
	for rows.Next() {
		var (
			log       attendance.PendingLog
			payload   string
			createdAt string
		)
		if err := rows.Scan(&log.ID, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending log: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &log.Request); err != nil {
			return nil, fmt.Errorf("failed to decode pending log payload: %w", err)
		}
		log.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pending log timestamp: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending logs: %w", err)
	}
	return logs, nil
}

// Count returns the number of pending logs.
func (r *PendingQueueRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM pending_attendance_logs
	`).Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to count pending logs: %w", err)
	}
	return count, nil
}
