package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"climbtracker/internal/cache"
	"climbtracker/internal/logging"
	"climbtracker/internal/metrics"
	"climbtracker/internal/model"
	"climbtracker/internal/repository"
)

// CacheWarmLimit is max sessions to fetch when warming a feed cache.
const CacheWarmLimit = 500

// maxHydratePasses bounds how often a page is re-read after stale entries
// were evicted from it.
const maxHydratePasses = 3

// FeedService serves the friends activity feed. With a nil feedCache every
// read goes to Postgres.
type FeedService struct {
	feedCache      cache.FeedCache
	sessionRepo    repository.SessionRepository
	friendshipRepo repository.FriendshipRepository
	userRepo       repository.UserRepository
}

func NewFeedService(
	feedCache cache.FeedCache,
	sessionRepo repository.SessionRepository,
	friendshipRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
) *FeedService {
	return &FeedService{
		feedCache:      feedCache,
		sessionRepo:    sessionRepo,
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
	}
}

// GetFeed returns the newest sessions of the user's friends, date descending.
// The user's own sessions are never part of the feed.
//
// Flow:
// 1. Check if the cache exists for the user, warming it on a miss
// 2. Read session IDs from the cache
// 3. Hydrate sessions and authors from Postgres
// Any cache failure falls back to reading Postgres directly.
func (s *FeedService) GetFeed(ctx context.Context, userID uuid.UUID, limit int) (*model.FeedResponse, error) {
	startTime := time.Now()
	logger := logging.Component("feed")

	if limit <= 0 {
		limit = model.FeedDefaultLimit
	}
	if limit > model.FeedMaxLimit {
		limit = model.FeedMaxLimit
	}

	var sessions []model.ClimbingSession
	var err error
	source := "db"
	if s.feedCache != nil {
		sessions, err = s.fromCache(ctx, userID, limit)
		if err != nil {
			logger.Warn().Err(err).Str("user_id", userID.String()).Msg("Feed cache unavailable, reading from DB")
		} else {
			source = "cache"
		}
	}
	if s.feedCache == nil || err != nil {
		sessions, err = s.fromDB(ctx, userID, limit)
		if err != nil {
			return nil, err
		}
	}

	feed, err := s.attachAuthors(ctx, userID, sessions)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("user_id", userID.String()).
		Str("source", source).
		Int("sessions", len(feed)).
		Dur("duration", time.Since(startTime)).
		Msg("GetFeed OK")

	return &model.FeedResponse{Sessions: feed}, nil
}

func (s *FeedService) fromCache(ctx context.Context, userID uuid.UUID, limit int) ([]model.ClimbingSession, error) {
	exists, err := s.feedCache.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check cache: %w", err)
	}

	if exists {
		metrics.FeedCacheHits.Inc()
	} else {
		metrics.FeedCacheMisses.Inc()
		if err := s.warmCache(ctx, userID); err != nil {
			return nil, err
		}
	}

	// Evicted entries leave a short page; re-reading pulls the next
	// entries up so the page is filled while the cache still has them.
	var sessions []model.ClimbingSession
	for pass := 0; pass < maxHydratePasses; pass++ {
		ids, err := s.feedCache.GetFeed(ctx, userID, limit)
		if err != nil {
			return nil, fmt.Errorf("get feed from cache: %w", err)
		}
		if len(ids) == 0 {
			return nil, nil
		}

		var dropped int
		sessions, dropped, err = s.hydrate(ctx, userID, ids)
		if err != nil {
			return nil, err
		}
		if dropped == 0 || len(ids) < limit {
			break
		}
	}
	return sessions, nil
}

// warmCache populates the user's feed cache from the sessions of their friends.
func (s *FeedService) warmCache(ctx context.Context, userID uuid.UUID) error {
	logger := logging.Component("feed")
	startTime := time.Now()

	friendIDs, err := s.friendshipRepo.GetFriendIDs(ctx, userID)
	if err != nil {
		return fmt.Errorf("get friend ids: %w", err)
	}
	if len(friendIDs) == 0 {
		return nil
	}

	sessions, err := s.sessionRepo.ListRecentByUsers(ctx, friendIDs, CacheWarmLimit)
	if err != nil {
		return fmt.Errorf("get recent sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil
	}

	scores := make([]model.SessionScore, 0, len(sessions))
	for _, sess := range sessions {
		if sess.UserID == userID {
			continue
		}
		scores = append(scores, model.SessionScore{SessionID: sess.ID, Score: sess.Date.UnixMilli()})
	}

	if err := s.feedCache.WarmCache(ctx, userID, scores); err != nil {
		return fmt.Errorf("warm cache: %w", err)
	}

	logger.Info().
		Str("user_id", userID.String()).
		Int("sessions", len(scores)).
		Dur("duration", time.Since(startTime)).
		Msg("Cache warmed")
	return nil
}

// hydrate loads the cached IDs from Postgres, dropping and evicting IDs that
// no longer resolve or that belong to the viewer. It reports how many were
// dropped.
func (s *FeedService) hydrate(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]model.ClimbingSession, int, error) {
	sessions, err := s.sessionRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("get sessions by ids: %w", err)
	}

	found := make(map[uuid.UUID]struct{}, len(sessions))
	kept := sessions[:0]
	for _, sess := range sessions {
		found[sess.ID] = struct{}{}
		if sess.UserID == userID {
			s.evict(ctx, userID, sess.ID)
			continue
		}
		kept = append(kept, sess)
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			s.evict(ctx, userID, id)
		}
	}
	return kept, len(ids) - len(kept), nil
}

func (s *FeedService) evict(ctx context.Context, userID, sessionID uuid.UUID) {
	if err := s.feedCache.RemoveSession(ctx, userID, sessionID); err != nil {
		logger := logging.Component("feed")
		logger.Warn().Err(err).Str("session_id", sessionID.String()).Msg("Failed to evict stale feed entry")
	}
}

func (s *FeedService) fromDB(ctx context.Context, userID uuid.UUID, limit int) ([]model.ClimbingSession, error) {
	friendIDs, err := s.friendshipRepo.GetFriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get friend ids: %w", err)
	}

	ids := friendIDs[:0:0]
	for _, id := range friendIDs {
		if id != userID {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	sessions, err := s.sessionRepo.ListRecentByUsers(ctx, ids, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent sessions: %w", err)
	}
	return sessions, nil
}

// attachAuthors pairs each session with its author's summary. Sessions whose
// author cannot be resolved are dropped.
func (s *FeedService) attachAuthors(ctx context.Context, userID uuid.UUID, sessions []model.ClimbingSession) ([]model.FeedSession, error) {
	feed := make([]model.FeedSession, 0, len(sessions))
	if len(sessions) == 0 {
		return feed, nil
	}

	authorSet := make(map[uuid.UUID]struct{})
	authorIDs := make([]uuid.UUID, 0)
	for _, sess := range sessions {
		if _, ok := authorSet[sess.UserID]; !ok {
			authorSet[sess.UserID] = struct{}{}
			authorIDs = append(authorIDs, sess.UserID)
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("get authors: %w", err)
	}
	authors := make(map[uuid.UUID]model.UserSummary, len(users))
	for i := range users {
		authors[users[i].ID] = users[i].Summary()
	}

	for _, sess := range sessions {
		if sess.UserID == userID {
			continue
		}
		author, ok := authors[sess.UserID]
		if !ok {
			continue
		}
		feed = append(feed, model.FeedSession{ClimbingSession: sess, Author: author})
	}
	return feed, nil
}
