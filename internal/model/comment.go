package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionComment represents a comment on a climbing session.
type SessionComment struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	SessionID uuid.UUID    `db:"session_id" json:"session_id"`
	UserID    uuid.UUID    `db:"user_id" json:"user_id"`
	Content   string       `db:"content" json:"content"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
	Author    *UserSummary `json:"author,omitempty"` // Joined field
}

// SessionLike is a single user's like of a session.
type SessionLike struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SessionID uuid.UUID `db:"session_id" json:"session_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CommentListResponse is the paginated comment list response.
type CommentListResponse struct {
	Comments []SessionComment `json:"comments"`
	HasMore  bool             `json:"has_more"`
}

// Comment constraints
const (
	MaxCommentLength       = 2200
	DefaultCommentPageSize = 20
	MaxCommentPageSize     = 100
)

var (
	ErrContentRequired = errors.New("comment content is required")
	ErrContentTooLong  = errors.New("comment content too long")
	ErrAlreadyLiked    = errors.New("session already liked")
	ErrNotLiked        = errors.New("like not found")
)
