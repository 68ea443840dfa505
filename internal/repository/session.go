package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"climbtracker/internal/model"
)

const sessionColumns = `id, user_id, location_id, date, duration_minutes, notes, energy_level,
		conditions, total_climbs, sends, attempts, max_grade, created_at, updated_at`

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create inserts the session with zeroed counters; RecomputeMetrics fills them in.
func (r *sessionRepository) Create(ctx context.Context, tx *sqlx.Tx, s *model.ClimbingSession) error {
	query := `
		INSERT INTO climbing_sessions (user_id, location_id, date, duration_minutes, notes,
		                               energy_level, conditions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, total_climbs, sends, attempts, max_grade, created_at, updated_at
	`
	row := tx.QueryRowxContext(ctx, query,
		s.UserID, s.LocationID, s.Date, s.DurationMinutes, s.Notes, s.EnergyLevel, s.Conditions,
	)
	err := row.Scan(&s.ID, &s.TotalClimbs, &s.Sends, &s.Attempts, &s.MaxGrade, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ClimbingSession, error) {
	var s model.ClimbingSession
	err := r.db.GetContext(ctx, &s, `SELECT `+sessionColumns+` FROM climbing_sessions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// GetByIDs returns the sessions that still exist among ids, date descending.
func (r *sessionRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ClimbingSession, error) {
	if len(ids) == 0 {
		return []model.ClimbingSession{}, nil
	}

	query := `
		SELECT ` + sessionColumns + `
		FROM climbing_sessions
		WHERE id = ANY($1::uuid[])
		ORDER BY date DESC, id DESC
	`
	var sessions []model.ClimbingSession
	if err := r.db.SelectContext(ctx, &sessions, query, uuidArray(ids)); err != nil {
		return nil, fmt.Errorf("get sessions by ids: %w", err)
	}
	return sessions, nil
}

func (r *sessionRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM climbing_sessions WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("check session existence: %w", err)
	}
	return exists, nil
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.ClimbingSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM climbing_sessions
		WHERE user_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	sessions := []model.ClimbingSession{}
	if err := r.db.SelectContext(ctx, &sessions, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("list sessions by user: %w", err)
	}
	return sessions, nil
}

func (r *sessionRepository) ListByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.ClimbingSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM climbing_sessions
		WHERE user_id = $1 AND date >= $2
		ORDER BY date DESC
	`
	var sessions []model.ClimbingSession
	if err := r.db.SelectContext(ctx, &sessions, query, userID, since); err != nil {
		return nil, fmt.Errorf("list sessions since: %w", err)
	}
	return sessions, nil
}

func (r *sessionRepository) ListRecentByUsers(ctx context.Context, userIDs []uuid.UUID, limit int) ([]model.ClimbingSession, error) {
	if len(userIDs) == 0 {
		return []model.ClimbingSession{}, nil
	}

	query := `
		SELECT ` + sessionColumns + `
		FROM climbing_sessions
		WHERE user_id = ANY($1::uuid[])
		ORDER BY date DESC, id DESC
		LIMIT $2
	`
	var sessions []model.ClimbingSession
	if err := r.db.SelectContext(ctx, &sessions, query, uuidArray(userIDs), limit); err != nil {
		return nil, fmt.Errorf("list recent sessions: %w", err)
	}
	return sessions, nil
}

func (r *sessionRepository) UpdateMetrics(ctx context.Context, tx *sqlx.Tx, sessionID uuid.UUID, m model.SessionMetrics) error {
	query := `
		UPDATE climbing_sessions
		SET total_climbs = $2, sends = $3, attempts = $4, max_grade = $5, updated_at = NOW()
		WHERE id = $1
	`
	result, err := tx.ExecContext(ctx, query, sessionID, m.TotalClimbs, m.Sends, m.Attempts, m.MaxGrade)
	if err != nil {
		return fmt.Errorf("update session metrics: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepository) LockForUpdate(ctx context.Context, tx *sqlx.Tx, sessionID uuid.UUID) error {
	var id uuid.UUID
	err := tx.GetContext(ctx, &id, `SELECT id FROM climbing_sessions WHERE id = $1 FOR UPDATE`, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrSessionNotFound
		}
		return fmt.Errorf("lock session: %w", err)
	}
	return nil
}
