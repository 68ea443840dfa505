package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"climbtracker/internal/geo"
	"climbtracker/internal/model"
)

// Methods taking a *sqlx.Tx run inside the caller's unit of work. Where the
// tx parameter is documented as optional, nil means the shared pool.

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error)
}

type LocationRepository interface {
	Create(ctx context.Context, loc *model.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Location, error)
	// ListWithin returns candidate locations, optionally restricted to a
	// bounding box and a location type. Callers apply the exact radius.
	ListWithin(ctx context.Context, box *geo.BoundingBox, locationType *model.LocationType) ([]model.Location, error)
}

type SessionRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, session *model.ClimbingSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ClimbingSession, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ClimbingSession, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.ClimbingSession, error)
	ListByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.ClimbingSession, error)
	// ListRecentByUsers returns the newest sessions of any of the given users, date descending.
	ListRecentByUsers(ctx context.Context, userIDs []uuid.UUID, limit int) ([]model.ClimbingSession, error)
	UpdateMetrics(ctx context.Context, tx *sqlx.Tx, sessionID uuid.UUID, m model.SessionMetrics) error
	// LockForUpdate takes a row lock so concurrent climb mutations recompute in order.
	LockForUpdate(ctx context.Context, tx *sqlx.Tx, sessionID uuid.UUID) error
}

type ClimbRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, climb *model.Climb) error
	Update(ctx context.Context, tx *sqlx.Tx, climb *model.Climb) error
	Delete(ctx context.Context, tx *sqlx.Tx, sessionID, climbID uuid.UUID) error
	// ListBySession reads through tx when non-nil so uncommitted climbs are visible.
	ListBySession(ctx context.Context, tx *sqlx.Tx, sessionID uuid.UUID) ([]model.Climb, error)
	ListBySessions(ctx context.Context, sessionIDs []uuid.UUID) ([]model.Climb, error)
}

type FriendshipRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, requesterID, addresseeID uuid.UUID) (*model.Friendship, error)
	// ExistsBetween reports whether any row connects the pair, in either direction and any status.
	ExistsBetween(ctx context.Context, tx *sqlx.Tx, a, b uuid.UUID) (bool, error)
	SetStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status model.FriendshipStatus) (*model.Friendship, error)
	ListAccepted(ctx context.Context, userID uuid.UUID) ([]model.Friendship, error)
	GetFriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListPendingFor(ctx context.Context, addresseeID uuid.UUID) ([]model.FriendRequest, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.SessionComment) error
	ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]model.SessionComment, bool, error)
}

type LikeRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, sessionID, userID uuid.UUID) (*model.SessionLike, error)
	Exists(ctx context.Context, tx *sqlx.Tx, sessionID, userID uuid.UUID) (bool, error)
	Delete(ctx context.Context, tx *sqlx.Tx, sessionID, userID uuid.UUID) error
}
