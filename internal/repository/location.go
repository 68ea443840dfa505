package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"climbtracker/internal/geo"
	"climbtracker/internal/model"
)

const locationColumns = `id, name, location_type, address, latitude, longitude, description, website,
		phone, day_pass_price, monthly_price, approach_time, difficulty_range, rock_type,
		created_at, updated_at`

type locationRepository struct {
	db *sqlx.DB
}

func NewLocationRepository(db *sqlx.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, l *model.Location) error {
	query := `
		INSERT INTO locations (name, location_type, address, latitude, longitude, description,
		                       website, phone, day_pass_price, monthly_price, approach_time,
		                       difficulty_range, rock_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		l.Name, l.LocationType, l.Address, l.Latitude, l.Longitude, l.Description,
		l.Website, l.Phone, l.DayPassPrice, l.MonthlyPrice, l.ApproachTime,
		l.DifficultyRange, l.RockType,
	)
	if err := row.Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *locationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	var l model.Location
	err := r.db.GetContext(ctx, &l, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrLocationNotFound
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// ListWithin builds the WHERE clause from whichever filters are present.
// Without a box every location of the requested type is a candidate.
func (r *locationRepository) ListWithin(ctx context.Context, box *geo.BoundingBox, locationType *model.LocationType) ([]model.Location, error) {
	var conds []string
	var args []interface{}

	if box != nil {
		args = append(args, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
		conds = append(conds, "latitude BETWEEN $1 AND $2", "longitude BETWEEN $3 AND $4")
	}
	if locationType != nil {
		args = append(args, *locationType)
		conds = append(conds, fmt.Sprintf("location_type = $%d", len(args)))
	}

	query := `SELECT ` + locationColumns + ` FROM locations`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at, id`

	var locations []model.Location
	if err := r.db.SelectContext(ctx, &locations, query, args...); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}
