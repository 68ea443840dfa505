package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"climbtracker/internal/database"
	"climbtracker/internal/model"
	"climbtracker/internal/queue"
	"climbtracker/internal/repository"
)

// InteractionService handles comments and likes on sessions.
type InteractionService struct {
	tx          database.Transactor
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
	publisher   queue.Publisher
}

func NewInteractionService(
	tx database.Transactor,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	publisher queue.Publisher,
) *InteractionService {
	return &InteractionService{
		tx:          tx,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

// AddComment stores a comment by userID on the session.
func (s *InteractionService) AddComment(ctx context.Context, sessionID, userID uuid.UUID, content string) (*model.SessionComment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, model.ErrContentRequired
	}
	if utf8.RuneCountInString(content) > model.MaxCommentLength {
		return nil, model.ErrContentTooLong
	}

	if err := s.requireSession(ctx, sessionID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &model.SessionComment{
		SessionID: sessionID,
		UserID:    userID,
		Content:   content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	author := user.Summary()
	comment.Author = &author

	publish(ctx, s.publisher, queue.NewSessionCommentedEvent(comment))
	return comment, nil
}

// ListComments returns one page of a session's comments, oldest first.
func (s *InteractionService) ListComments(ctx context.Context, sessionID uuid.UUID, limit, offset int) (*model.CommentListResponse, error) {
	if limit <= 0 {
		limit = model.DefaultCommentPageSize
	}
	if limit > model.MaxCommentPageSize {
		limit = model.MaxCommentPageSize
	}
	if offset < 0 {
		offset = 0
	}

	if err := s.requireSession(ctx, sessionID); err != nil {
		return nil, err
	}

	comments, hasMore, err := s.commentRepo.ListBySession(ctx, sessionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if comments == nil {
		comments = []model.SessionComment{}
	}
	return &model.CommentListResponse{Comments: comments, HasMore: hasMore}, nil
}

// Like records userID's like of the session. A second like is a conflict.
func (s *InteractionService) Like(ctx context.Context, sessionID, userID uuid.UUID) (*model.SessionLike, error) {
	if err := s.requireSession(ctx, sessionID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	var like *model.SessionLike
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := s.likeRepo.Exists(ctx, tx, sessionID, userID)
		if err != nil {
			return err
		}
		if exists {
			return model.ErrAlreadyLiked
		}
		like, err = s.likeRepo.Create(ctx, tx, sessionID, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("like session: %w", err)
	}

	publish(ctx, s.publisher, queue.NewSessionLikedEvent(sessionID, userID))
	return like, nil
}

// Unlike removes userID's like of the session.
func (s *InteractionService) Unlike(ctx context.Context, sessionID, userID uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.likeRepo.Delete(ctx, tx, sessionID, userID)
	})
	if err != nil {
		return fmt.Errorf("unlike session: %w", err)
	}
	return nil
}

func (s *InteractionService) requireSession(ctx context.Context, sessionID uuid.UUID) error {
	exists, err := s.sessionRepo.Exists(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if !exists {
		return model.ErrSessionNotFound
	}
	return nil
}
