package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"climbtracker/internal/model"
)

type friendshipRepository struct {
	db *sqlx.DB
}

func NewFriendshipRepository(db *sqlx.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

// Create inserts a pending request. The unordered-pair unique index turns a
// lost check-then-insert race into ErrFriendshipExists.
func (r *friendshipRepository) Create(ctx context.Context, tx *sqlx.Tx, requesterID, addresseeID uuid.UUID) (*model.Friendship, error) {
	query := `
		INSERT INTO friendships (requester_id, addressee_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, requester_id, addressee_id, status, created_at, updated_at
	`
	var f model.Friendship
	err := tx.GetContext(ctx, &f, query, requesterID, addresseeID, model.FriendshipPending)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, model.ErrFriendshipExists
		}
		return nil, fmt.Errorf("insert friendship: %w", err)
	}
	return &f, nil
}

func (r *friendshipRepository) ExistsBetween(ctx context.Context, tx *sqlx.Tx, a, b uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM friendships
			WHERE (requester_id = $1 AND addressee_id = $2)
			   OR (requester_id = $2 AND addressee_id = $1)
		)
	`
	var exists bool
	if err := sqlx.GetContext(ctx, queryer(r.db, tx), &exists, query, a, b); err != nil {
		return false, fmt.Errorf("check friendship existence: %w", err)
	}
	return exists, nil
}

func (r *friendshipRepository) SetStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status model.FriendshipStatus) (*model.Friendship, error) {
	query := `
		UPDATE friendships SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, requester_id, addressee_id, status, created_at, updated_at
	`
	var f model.Friendship
	if err := tx.GetContext(ctx, &f, query, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrFriendshipNotFound
		}
		return nil, fmt.Errorf("update friendship status: %w", err)
	}
	return &f, nil
}

func (r *friendshipRepository) ListAccepted(ctx context.Context, userID uuid.UUID) ([]model.Friendship, error) {
	query := `
		SELECT id, requester_id, addressee_id, status, created_at, updated_at
		FROM friendships
		WHERE (requester_id = $1 OR addressee_id = $1) AND status = $2
		ORDER BY updated_at DESC, id
	`
	var friendships []model.Friendship
	if err := r.db.SelectContext(ctx, &friendships, query, userID, model.FriendshipAccepted); err != nil {
		return nil, fmt.Errorf("list accepted friendships: %w", err)
	}
	return friendships, nil
}

// GetFriendIDs returns the other endpoint of every accepted friendship of userID.
func (r *friendshipRepository) GetFriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT CASE WHEN requester_id = $1 THEN addressee_id ELSE requester_id END
		FROM friendships
		WHERE (requester_id = $1 OR addressee_id = $1) AND status = $2
	`
	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, userID, model.FriendshipAccepted); err != nil {
		return nil, fmt.Errorf("get friend ids: %w", err)
	}
	return ids, nil
}

func (r *friendshipRepository) ListPendingFor(ctx context.Context, addresseeID uuid.UUID) ([]model.FriendRequest, error) {
	query := `
		SELECT f.id, f.requester_id, f.addressee_id, f.status, f.created_at, f.updated_at,
		       u.id AS "requester.id", u.username AS "requester.username",
		       u.first_name AS "requester.first_name", u.last_name AS "requester.last_name"
		FROM friendships f
		JOIN users u ON u.id = f.requester_id
		WHERE f.addressee_id = $1 AND f.status = $2
		ORDER BY f.created_at DESC, f.id
	`
	requests := []model.FriendRequest{}
	if err := r.db.SelectContext(ctx, &requests, query, addresseeID, model.FriendshipPending); err != nil {
		return nil, fmt.Errorf("list pending friend requests: %w", err)
	}
	return requests, nil
}
