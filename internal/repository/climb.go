package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"climbtracker/internal/model"
)

const climbColumns = `id, session_id, climb_type, grade, grade_system, route_name, route_setter, color,
		sent, attempts, flash, onsight, style_notes, beta, rating, created_at`

type climbRepository struct {
	db *sqlx.DB
}

func NewClimbRepository(db *sqlx.DB) ClimbRepository {
	return &climbRepository{db: db}
}

func (r *climbRepository) Create(ctx context.Context, tx *sqlx.Tx, c *model.Climb) error {
	query := `
		INSERT INTO climbs (session_id, climb_type, grade, grade_system, route_name, route_setter,
		                    color, sent, attempts, flash, onsight, style_notes, beta, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`
	row := tx.QueryRowxContext(ctx, query,
		c.SessionID, c.ClimbType, c.Grade, c.GradeSystem, c.RouteName, c.RouteSetter,
		c.Color, c.Sent, c.Attempts, c.Flash, c.Onsight, c.StyleNotes, c.Beta, c.Rating,
	)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("insert climb: %w", err)
	}
	return nil
}

// Update replaces every editable column of the climb identified by
// (c.SessionID, c.ID) and refreshes c from the stored row.
func (r *climbRepository) Update(ctx context.Context, tx *sqlx.Tx, c *model.Climb) error {
	query := `
		UPDATE climbs SET
			climb_type = $3, grade = $4, grade_system = $5, route_name = $6, route_setter = $7,
			color = $8, sent = $9, attempts = $10, flash = $11, onsight = $12,
			style_notes = $13, beta = $14, rating = $15
		WHERE session_id = $1 AND id = $2
		RETURNING created_at
	`
	rows, err := tx.QueryxContext(ctx, query,
		c.SessionID, c.ID, c.ClimbType, c.Grade, c.GradeSystem, c.RouteName, c.RouteSetter,
		c.Color, c.Sent, c.Attempts, c.Flash, c.Onsight, c.StyleNotes, c.Beta, c.Rating,
	)
	if err != nil {
		return fmt.Errorf("update climb: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("update climb: %w", err)
		}
		return model.ErrClimbNotFound
	}
	if err := rows.Scan(&c.CreatedAt); err != nil {
		return fmt.Errorf("scan updated climb: %w", err)
	}
	return rows.Err()
}

func (r *climbRepository) Delete(ctx context.Context, tx *sqlx.Tx, sessionID, climbID uuid.UUID) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM climbs WHERE session_id = $1 AND id = $2`, sessionID, climbID)
	if err != nil {
		return fmt.Errorf("delete climb: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrClimbNotFound
	}
	return nil
}

func (r *climbRepository) ListBySession(ctx context.Context, tx *sqlx.Tx, sessionID uuid.UUID) ([]model.Climb, error) {
	query := `SELECT ` + climbColumns + ` FROM climbs WHERE session_id = $1 ORDER BY created_at, id`

	climbs := []model.Climb{}
	if err := sqlx.SelectContext(ctx, queryer(r.db, tx), &climbs, query, sessionID); err != nil {
		return nil, fmt.Errorf("list climbs: %w", err)
	}
	return climbs, nil
}

func (r *climbRepository) ListBySessions(ctx context.Context, sessionIDs []uuid.UUID) ([]model.Climb, error) {
	if len(sessionIDs) == 0 {
		return []model.Climb{}, nil
	}

	query := `
		SELECT ` + climbColumns + `
		FROM climbs
		WHERE session_id = ANY($1::uuid[])
		ORDER BY created_at, id
	`
	var climbs []model.Climb
	if err := r.db.SelectContext(ctx, &climbs, query, uuidArray(sessionIDs)); err != nil {
		return nil, fmt.Errorf("list climbs by sessions: %w", err)
	}
	return climbs, nil
}
