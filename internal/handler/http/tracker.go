package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/attendance"
	"github.com/mustafayusufaksoy/camlica360/internal/handler/http/response"
	"github.com/mustafayusufaksoy/camlica360/internal/pkg/apiclient"
	tracker "github.com/mustafayusufaksoy/camlica360/internal/service/tracker"
)

type TrackerHandler struct {
	tracker    *tracker.Service
	attendance attendance.Service
}

func NewTrackerHandler(trackerSvc *tracker.Service, attendanceSvc attendance.Service) *TrackerHandler {
	return &TrackerHandler{tracker: trackerSvc, attendance: attendanceSvc}
}

func (h *TrackerHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.tracker.Status())
}

func (h *TrackerHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.StartTracking(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Tracking started", h.tracker.Status())
}

func (h *TrackerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.tracker.StopTracking()
	response.SuccessWithMessage(w, "Tracking stopped", h.tracker.Status())
}

type attendanceEventRequest struct {
	Note *string `json:"note,omitempty"`
}

func (h *TrackerHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.recordEvent(w, r, h.tracker.CheckIn)
}

func (h *TrackerHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.recordEvent(w, r, h.tracker.CheckOut)
}

func (h *TrackerHandler) recordEvent(
	w http.ResponseWriter,
	r *http.Request,
	record func(ctx context.Context, note *string) (attendance.Log, error),
) {
	var req attendanceEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	logged, err := record(r.Context(), req.Note)
	switch {
	case err == nil:
		response.Created(w, "Attendance event recorded", logged)
	case apiclient.IsTransient(err):
		response.Accepted(w, "Backend unreachable; attendance event saved offline", nil)
	default:
		response.HandleError(w, err)
	}
}

func (h *TrackerHandler) TodayLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.attendance.TodayLogs(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, logs)
}

func (h *TrackerHandler) Pending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.attendance.PendingLogs(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, pending)
}

func (h *TrackerHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.SyncNow(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Pending logs synced", h.tracker.Status())
}

func (h *TrackerHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.tracker.RefreshToday(r.Context())
	response.SuccessWithMessage(w, "State refreshed", h.tracker.Status())
}
