package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"climbtracker/internal/cache"
	"climbtracker/internal/logging"
	"climbtracker/internal/metrics"
	"climbtracker/internal/queue"
)

// FriendProvider abstracts the friendship repository so workers don't depend on the DB directly.
type FriendProvider interface {
	GetFriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// Handler processes activity events from the queue.
type Handler struct {
	feedCache cache.FeedCache
	friends   FriendProvider
}

func NewHandler(feedCache cache.FeedCache, friends FriendProvider) *Handler {
	return &Handler{
		feedCache: feedCache,
		friends:   friends,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.ActivityEvent) error {
	logger := logging.Component("worker")
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventSessionCreated:
		err = h.handleSessionCreated(ctx, event)
	case queue.EventFriendshipAccepted:
		err = h.handleFriendshipAccepted(ctx, event)
	case queue.EventSessionLiked, queue.EventSessionCommented:
		logger.Info().
			Str("type", event.Type).
			Str("session_id", event.SessionID.String()).
			Str("actor_id", event.ActorID.String()).
			Msg("Session interaction")
	default:
		err = fmt.Errorf("unknown event type: %s", event.Type)
	}

	metrics.RecordWorkerEvent(event.Type, err)
	if err != nil {
		logger.Error().Err(err).Str("type", event.Type).Dur("duration", time.Since(startTime)).Msg("HandleEvent failed")
		return err
	}

	logger.Debug().Str("type", event.Type).Dur("duration", time.Since(startTime)).Msg("HandleEvent OK")
	return nil
}

// handleSessionCreated fans a new session out to the cached feeds of the author's friends.
// The author's own feed is never touched.
func (h *Handler) handleSessionCreated(ctx context.Context, event queue.ActivityEvent) error {
	logger := logging.Component("worker")

	friendIDs, err := h.friends.GetFriendIDs(ctx, event.ActorID)
	if err != nil {
		return fmt.Errorf("get friends: %w", err)
	}

	var added, failed int
	for _, friendID := range friendIDs {
		if friendID == event.ActorID {
			continue
		}
		ok, err := h.feedCache.AddSession(ctx, friendID, event.SessionID, event.SessionDate)
		if err != nil {
			// Continue with other friends - don't fail entire fan-out
			failed++
			continue
		}
		if ok {
			added++
		}
	}

	logger.Info().
		Str("session_id", event.SessionID.String()).
		Int("friends", len(friendIDs)).
		Int("added", added).
		Int("failed", failed).
		Msg("SessionCreated fan-out done")
	return nil
}

// handleFriendshipAccepted drops both users' cached feeds. The next read warms
// each feed from Postgres, so it holds exactly the same window the DB path
// would return, with the new friend's sessions included.
func (h *Handler) handleFriendshipAccepted(ctx context.Context, event queue.ActivityEvent) error {
	if err := h.feedCache.Invalidate(ctx, event.RequesterID, event.AddresseeID); err != nil {
		return fmt.Errorf("invalidate feeds: %w", err)
	}

	logger := logging.Component("worker")
	logger.Info().
		Str("requester_id", event.RequesterID.String()).
		Str("addressee_id", event.AddresseeID.String()).
		Msg("Feeds invalidated after friendship accepted")
	return nil
}
