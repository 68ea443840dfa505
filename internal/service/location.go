package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"climbtracker/internal/geo"
	"climbtracker/internal/model"
	"climbtracker/internal/repository"
)

type LocationService struct {
	repo repository.LocationRepository
}

func NewLocationService(repo repository.LocationRepository) *LocationService {
	return &LocationService{repo: repo}
}

// Create stores a new gym or crag.
func (s *LocationService) Create(ctx context.Context, req *model.CreateLocationRequest) (*model.Location, error) {
	if req.Latitude == nil || req.Longitude == nil || !validCoordinates(*req.Latitude, *req.Longitude) {
		return nil, model.ErrInvalidCoordinates
	}
	if !req.LocationType.Valid() {
		return nil, model.ErrInvalidLocationType
	}

	loc := &model.Location{
		Name:            req.Name,
		LocationType:    req.LocationType,
		Address:         req.Address,
		Latitude:        *req.Latitude,
		Longitude:       *req.Longitude,
		Description:     req.Description,
		Website:         req.Website,
		Phone:           req.Phone,
		DayPassPrice:    req.DayPassPrice,
		MonthlyPrice:    req.MonthlyPrice,
		ApproachTime:    req.ApproachTime,
		DifficultyRange: req.DifficultyRange,
		RockType:        req.RockType,
	}
	if err := s.repo.Create(ctx, loc); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return loc, nil
}

func (s *LocationService) GetByID(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	return s.repo.GetByID(ctx, id)
}

// Nearby returns the locations within q.RadiusKm of the query point, nearest
// first. The radius test uses the exact distance; the reported distance_km is
// rounded to two decimals and ties keep store order.
func (s *LocationService) Nearby(ctx context.Context, q model.NearbyQuery) ([]model.NearbyLocation, error) {
	if !validCoordinates(q.Latitude, q.Longitude) {
		return nil, model.ErrInvalidCoordinates
	}
	if math.IsNaN(q.RadiusKm) || math.IsInf(q.RadiusKm, 0) || q.RadiusKm < 0 {
		return nil, model.ErrInvalidRadius
	}
	if q.LocationType != nil && !q.LocationType.Valid() {
		return nil, model.ErrInvalidLocationType
	}

	var box *geo.BoundingBox
	if b, ok := geo.NewBoundingBox(q.Latitude, q.Longitude, q.RadiusKm); ok {
		box = &b
	}

	candidates, err := s.repo.ListWithin(ctx, box, q.LocationType)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	nearby := make([]model.NearbyLocation, 0, len(candidates))
	for _, loc := range candidates {
		d := geo.Distance(q.Latitude, q.Longitude, loc.Latitude, loc.Longitude)
		if !(d <= q.RadiusKm) {
			continue
		}
		nearby = append(nearby, model.NearbyLocation{
			Location:   loc,
			DistanceKm: geo.Round(d, 2),
		})
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby, nil
}

// validCoordinates also rejects NaN, which fails every comparison.
func validCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
