package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Friendship is a directed request from requester to addressee. At most one
// row exists per unordered pair of users.
type Friendship struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	RequesterID uuid.UUID        `db:"requester_id" json:"requester_id"`
	AddresseeID uuid.UUID        `db:"addressee_id" json:"addressee_id"`
	Status      FriendshipStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// OtherEnd returns the endpoint of the friendship that is not userID.
func (f Friendship) OtherEnd(userID uuid.UUID) uuid.UUID {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

// FriendRequest is a pending request addressed to a user, with the requester's summary.
type FriendRequest struct {
	Friendship
	Requester UserSummary `json:"requester"`
}

var (
	ErrFriendshipExists   = errors.New("friendship already exists")
	ErrFriendshipNotFound = errors.New("friendship not found")
	ErrCannotFriendSelf   = errors.New("cannot send a friend request to yourself")
)
