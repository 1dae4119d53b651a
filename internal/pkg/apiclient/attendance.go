package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/attendance"
)

// SubmitAttendanceLog submits one attendance event and returns the confirmed
// log the backend created for it.
func (c *Client) SubmitAttendanceLog(ctx context.Context, req attendance.CreateLogRequest) (attendance.Log, error) {
	var log attendance.Log
	if err := c.do(ctx, http.MethodPost, "/hr/attendance-log/create", req, &log); err != nil {
		return attendance.Log{}, err
	}
	return log, nil
}

// GetAttendanceLogs returns the confirmed logs for a personnel in [from, to).
func (c *Client) GetAttendanceLogs(ctx context.Context, personnelID string, from, to time.Time) ([]attendance.Log, error) {
	query := url.Values{}
	query.Set("from", from.UTC().Format(time.RFC3339))
	query.Set("to", to.UTC().Format(time.RFC3339))

	path := fmt.Sprintf("/hr/attendance-log/getByPersonnel/%s?%s",
		url.PathEscape(personnelID), query.Encode())

	var logs []attendance.Log
	if err := c.do(ctx, http.MethodGet, path, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
