package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"climbtracker/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, c *model.SessionComment) error {
	query := `
		INSERT INTO session_comments (session_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	row := r.db.QueryRowxContext(ctx, query, c.SessionID, c.UserID, c.Content)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// ListBySession returns one page of comments, oldest first, and whether more follow.
func (r *commentRepository) ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]model.SessionComment, bool, error) {
	query := `
		SELECT c.id, c.session_id, c.user_id, c.content, c.created_at, c.updated_at,
		       u.id AS "author.id", u.username AS "author.username",
		       u.first_name AS "author.first_name", u.last_name AS "author.last_name"
		FROM session_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.session_id = $1
		ORDER BY c.created_at, c.id
		LIMIT $2 OFFSET $3
	`

	type commentRow struct {
		ID        uuid.UUID         `db:"id"`
		SessionID uuid.UUID         `db:"session_id"`
		UserID    uuid.UUID         `db:"user_id"`
		Content   string            `db:"content"`
		CreatedAt time.Time         `db:"created_at"`
		UpdatedAt time.Time         `db:"updated_at"`
		Author    model.UserSummary `db:"author"`
	}

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, sessionID, limit+1, offset); err != nil {
		return nil, false, fmt.Errorf("get comments: %w", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	comments := make([]model.SessionComment, len(rows))
	for i, row := range rows {
		author := row.Author
		comments[i] = model.SessionComment{
			ID:        row.ID,
			SessionID: row.SessionID,
			UserID:    row.UserID,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			Author:    &author,
		}
	}

	return comments, hasMore, nil
}
