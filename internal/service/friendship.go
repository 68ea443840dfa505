package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"climbtracker/internal/database"
	"climbtracker/internal/logging"
	"climbtracker/internal/model"
	"climbtracker/internal/queue"
	"climbtracker/internal/repository"
)

type FriendshipService struct {
	tx             database.Transactor
	friendshipRepo repository.FriendshipRepository
	userRepo       repository.UserRepository
	publisher      queue.Publisher
}

func NewFriendshipService(
	tx database.Transactor,
	friendshipRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	publisher queue.Publisher,
) *FriendshipService {
	return &FriendshipService{
		tx:             tx,
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
		publisher:      publisher,
	}
}

// Request creates a pending friendship from requester to addressee. Any
// existing row between the two users, in either direction and with any
// status, is a conflict.
func (s *FriendshipService) Request(ctx context.Context, requesterID, addresseeID uuid.UUID) (*model.Friendship, error) {
	if requesterID == addresseeID {
		return nil, model.ErrCannotFriendSelf
	}
	if _, err := s.userRepo.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, addresseeID); err != nil {
		return nil, err
	}

	var friendship *model.Friendship
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := s.friendshipRepo.ExistsBetween(ctx, tx, requesterID, addresseeID)
		if err != nil {
			return err
		}
		if exists {
			return model.ErrFriendshipExists
		}

		friendship, err = s.friendshipRepo.Create(ctx, tx, requesterID, addresseeID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("request friendship: %w", err)
	}

	logger := logging.Component("friendships")
	logger.Info().
		Str("requester_id", requesterID.String()).
		Str("addressee_id", addresseeID.String()).
		Msg("Friend request sent")
	return friendship, nil
}

// Accept marks the friendship accepted. There is no check that the caller is
// the addressee.
func (s *FriendshipService) Accept(ctx context.Context, friendshipID uuid.UUID) (*model.Friendship, error) {
	var friendship *model.Friendship
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		friendship, err = s.friendshipRepo.SetStatus(ctx, tx, friendshipID, model.FriendshipAccepted)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("accept friendship: %w", err)
	}

	publish(ctx, s.publisher, queue.NewFriendshipAcceptedEvent(friendship))
	return friendship, nil
}

// Friends resolves the other endpoint of each accepted friendship of the user.
// Endpoints that no longer resolve to a user are skipped.
func (s *FriendshipService) Friends(ctx context.Context, userID uuid.UUID) ([]model.User, error) {
	friendships, err := s.friendshipRepo.ListAccepted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(friendships))
	ids := make([]uuid.UUID, 0, len(friendships))
	for _, f := range friendships {
		other := f.OtherEnd(userID)
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		ids = append(ids, other)
	}
	if len(ids) == 0 {
		return []model.User{}, nil
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get friends: %w", err)
	}
	byID := make(map[uuid.UUID]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	friends := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			friends = append(friends, u)
		}
	}
	return friends, nil
}

// PendingRequests lists requests addressed to the user that are still pending.
func (s *FriendshipService) PendingRequests(ctx context.Context, userID uuid.UUID) ([]model.FriendRequest, error) {
	requests, err := s.friendshipRepo.ListPendingFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}
	if requests == nil {
		requests = []model.FriendRequest{}
	}
	return requests, nil
}
