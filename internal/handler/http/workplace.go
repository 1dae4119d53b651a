package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/location"
	"github.com/mustafayusufaksoy/camlica360/internal/handler/http/response"
	workplacesvc "github.com/mustafayusufaksoy/camlica360/internal/service/workplace"
)

type WorkplaceHandler struct {
	workplaces *workplacesvc.Service
}

func NewWorkplaceHandler(workplaces *workplacesvc.Service) *WorkplaceHandler {
	return &WorkplaceHandler{workplaces: workplaces}
}

func (h *WorkplaceHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.workplaces.GetAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, locations)
}

func (h *WorkplaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	loc, err := h.workplaces.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, loc)
}

func (h *WorkplaceHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	locations, err := h.workplaces.FetchAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	monitored := h.workplaces.SetupGeofences(locations)
	response.SuccessWithMessage(w, "Workplace locations refreshed", map[string]interface{}{
		"locations": locations,
		"monitored": monitored,
	})
}

// Nearest resolves the closest cached workplace to ?lat=..&lon=..
func (h *WorkplaceHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		response.BadRequest(w, "lat and lon query parameters are required", nil)
		return
	}
	coord := location.Coordinate{Latitude: lat, Longitude: lon}
	if !coord.Valid() {
		response.HandleError(w, location.ErrInvalidCoordinate)
		return
	}

	nearest := h.workplaces.Nearest(coord)
	if nearest == nil {
		response.NotFound(w, "No workplace locations cached yet")
		return
	}
	response.Success(w, nearest)
}
