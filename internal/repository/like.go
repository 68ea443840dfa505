package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"climbtracker/internal/model"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, tx *sqlx.Tx, sessionID, userID uuid.UUID) (*model.SessionLike, error) {
	query := `
		INSERT INTO session_likes (session_id, user_id)
		VALUES ($1, $2)
		RETURNING id, session_id, user_id, created_at
	`
	var like model.SessionLike
	if err := tx.GetContext(ctx, &like, query, sessionID, userID); err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, model.ErrAlreadyLiked
		}
		return nil, fmt.Errorf("insert like: %w", err)
	}
	return &like, nil
}

func (r *likeRepository) Exists(ctx context.Context, tx *sqlx.Tx, sessionID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM session_likes WHERE session_id = $1 AND user_id = $2)`
	var exists bool
	if err := sqlx.GetContext(ctx, queryer(r.db, tx), &exists, query, sessionID, userID); err != nil {
		return false, fmt.Errorf("check like existence: %w", err)
	}
	return exists, nil
}

func (r *likeRepository) Delete(ctx context.Context, tx *sqlx.Tx, sessionID, userID uuid.UUID) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM session_likes WHERE session_id = $1 AND user_id = $2`, sessionID, userID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotLiked
	}
	return nil
}
