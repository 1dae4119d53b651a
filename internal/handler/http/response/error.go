package response

import (
	"errors"
	"net/http"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/attendance"
	"github.com/mustafayusufaksoy/camlica360/internal/domain/location"
	"github.com/mustafayusufaksoy/camlica360/internal/domain/workplace"
	"github.com/mustafayusufaksoy/camlica360/internal/pkg/apiclient"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var serverErr *apiclient.ServerError
	var syncErr *attendance.SyncError

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrNoIdentity):
		Unauthorized(w, "No signed-in user; provide an access token first")
	case errors.Is(err, attendance.ErrNotTracking):
		Conflict(w, "Tracking is not running")
	case errors.Is(err, attendance.ErrNoFix):
		Conflict(w, "No position fix available yet")
	case errors.Is(err, attendance.ErrOutsideWorkplace):
		Conflict(w, "Current position is outside every workplace")
	case errors.Is(err, attendance.ErrInvalidEventType):
		BadRequest(w, "Unknown attendance event type", nil)
	case errors.Is(err, attendance.ErrMissingWorkplace):
		BadRequest(w, "Workplace location is required", nil)
	case errors.Is(err, attendance.ErrQueuePersistFailed):
		InternalServerError(w, "Attendance event could not be saved offline")
	case errors.As(err, &syncErr):
		BadGateway(w, syncErr.Error())

	// Workplace domain errors
	case errors.Is(err, workplace.ErrLocationNotFound):
		NotFound(w, "Workplace location not found")
	case errors.Is(err, workplace.ErrEmptyCache):
		NotFound(w, "No workplace locations cached yet")

	// Location domain errors
	case errors.Is(err, location.ErrPermissionDenied),
		errors.Is(err, location.ErrPermissionRestricted):
		Forbidden(w, "Location access is not permitted")
	case errors.Is(err, location.ErrInvalidCoordinate):
		BadRequest(w, "Coordinate out of range", nil)

	// Transport errors relayed from the backend
	case apiclient.IsTransient(err):
		ServiceUnavailable(w, "Backend unreachable")
	case errors.Is(err, apiclient.ErrUnauthorized):
		Unauthorized(w, "Backend rejected the access token")
	case errors.Is(err, apiclient.ErrForbidden):
		Forbidden(w, "Backend refused the request")
	case errors.Is(err, apiclient.ErrNotFound):
		NotFound(w, "Backend resource not found")
	case errors.Is(err, apiclient.ErrValidation):
		BadRequest(w, "Backend rejected the payload", nil)
	case errors.As(err, &serverErr):
		BadGateway(w, serverErr.Message)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
