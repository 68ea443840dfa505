package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Location is a gym or an outdoor crag.
type Location struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	LocationType LocationType `db:"location_type" json:"location_type"`
	Address      *string      `db:"address" json:"address"`
	Latitude     float64      `db:"latitude" json:"latitude"`
	Longitude    float64      `db:"longitude" json:"longitude"`
	Description  *string      `db:"description" json:"description"`
	Website      *string      `db:"website" json:"website"`
	Phone        *string      `db:"phone" json:"phone"`

	// Gym-specific
	DayPassPrice *float64 `db:"day_pass_price" json:"day_pass_price"`
	MonthlyPrice *float64 `db:"monthly_price" json:"monthly_price"`

	// Outdoor-specific
	ApproachTime    *int    `db:"approach_time" json:"approach_time"` // minutes
	DifficultyRange *string `db:"difficulty_range" json:"difficulty_range"`
	RockType        *string `db:"rock_type" json:"rock_type"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NearbyLocation is a location annotated with its distance from the query point.
type NearbyLocation struct {
	Location
	DistanceKm float64 `json:"distance_km"`
}

// CreateLocationRequest is the request body for POST /locations.
type CreateLocationRequest struct {
	Name            string       `json:"name" validate:"required,max=200"`
	LocationType    LocationType `json:"location_type" validate:"required,oneof=indoor outdoor"`
	Address         *string      `json:"address" validate:"omitempty,max=300"`
	Latitude        *float64     `json:"latitude" validate:"required,latitude"`
	Longitude       *float64     `json:"longitude" validate:"required,longitude"`
	Description     *string      `json:"description"`
	Website         *string      `json:"website" validate:"omitempty,max=200"`
	Phone           *string      `json:"phone" validate:"omitempty,max=20"`
	DayPassPrice    *float64     `json:"day_pass_price" validate:"omitempty,gte=0"`
	MonthlyPrice    *float64     `json:"monthly_price" validate:"omitempty,gte=0"`
	ApproachTime    *int         `json:"approach_time" validate:"omitempty,gte=0"`
	DifficultyRange *string      `json:"difficulty_range" validate:"omitempty,max=50"`
	RockType        *string      `json:"rock_type" validate:"omitempty,max=50"`
}

// NearbyQuery holds the parameters of a proximity search.
type NearbyQuery struct {
	Latitude     float64
	Longitude    float64
	RadiusKm     float64
	LocationType *LocationType
}

// DefaultNearbyRadiusKm is used when the caller does not pass radius_km.
const DefaultNearbyRadiusKm = 50.0

var (
	ErrLocationNotFound    = errors.New("location not found")
	ErrInvalidCoordinates  = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")
	ErrInvalidRadius       = errors.New("radius_km must be a finite, non-negative number")
	ErrInvalidLocationType = errors.New("location_type must be indoor or outdoor")
)
