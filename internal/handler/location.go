package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"climbtracker/internal/httputil"
	"climbtracker/internal/model"
)

type LocationService interface {
	Create(ctx context.Context, req *model.CreateLocationRequest) (*model.Location, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Location, error)
	Nearby(ctx context.Context, q model.NearbyQuery) ([]model.NearbyLocation, error)
}

type LocationHandler struct {
	locationService LocationService
}

func NewLocationHandler(locationService LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// Create handles POST /locations
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateLocationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	loc, err := h.locationService.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to create location")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, loc)
}

// Get handles GET /locations/{id}
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	locationID, ok := urlUUID(w, r, "id", "location")
	if !ok {
		return
	}

	loc, err := h.locationService.GetByID(r.Context(), locationID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to get location")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, loc)
}

// Nearby handles GET /locations/nearby
//
// Query params:
//   - latitude, longitude: required
//   - radius_km: optional, default 50
//   - location_type: optional, indoor or outdoor
func (h *LocationHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, ok := queryFloat(w, r, "latitude", 0, true)
	if !ok {
		return
	}
	lon, ok := queryFloat(w, r, "longitude", 0, true)
	if !ok {
		return
	}
	radius, ok := queryFloat(w, r, "radius_km", model.DefaultNearbyRadiusKm, false)
	if !ok {
		return
	}

	q := model.NearbyQuery{Latitude: lat, Longitude: lon, RadiusKm: radius}
	if t := r.URL.Query().Get("location_type"); t != "" {
		lt := model.LocationType(t)
		q.LocationType = &lt
	}

	locations, err := h.locationService.Nearby(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err, "Failed to search locations")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, locations)
}
