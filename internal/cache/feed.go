package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"climbtracker/internal/logging"
	"climbtracker/internal/model"
)

const (
	// FeedCachePrefix is the key prefix for user feed caches
	FeedCachePrefix = "feed:user:"

	// FeedCacheCap is the maximum number of sessions kept per user
	FeedCacheCap = 500

	// FeedCacheTTL is the TTL for feed cache (7 days)
	FeedCacheTTL = 7 * 24 * time.Hour
)

// FeedCache stores, per user, the IDs of friends' sessions scored by session
// date in Unix milliseconds.
type FeedCache interface {
	// AddSession inserts a session into a feed that is already cached. Feeds
	// that are not cached are left alone and warmed on their next read, so a
	// partial feed is never mistaken for a complete one. Reports whether the
	// session was added.
	AddSession(ctx context.Context, userID, sessionID uuid.UUID, score int64) (bool, error)

	// RemoveSession drops a session from a user's feed.
	RemoveSession(ctx context.Context, userID, sessionID uuid.UUID) error

	// GetFeed returns up to limit session IDs, newest first.
	GetFeed(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error)

	// WarmCache bulk-adds sessions, creating the key when it is missing.
	WarmCache(ctx context.Context, userID uuid.UUID, sessions []model.SessionScore) error

	Size(ctx context.Context, userID uuid.UUID) (int64, error)

	// Exists checks if a user has a feed cache entry.
	// Returns false if the key doesn't exist (new user or TTL expired).
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)

	// Invalidate drops the users' feeds so their next read warms from Postgres.
	Invalidate(ctx context.Context, userIDs ...uuid.UUID) error
}

// addIfCached is ZADD + cap trim, applied only when the key exists. The TTL
// from WarmCache is never extended.
var addIfCached = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[1], ARGV[2])
redis.call('ZREMRANGEBYRANK', KEYS[1], 0, -(tonumber(ARGV[3]) + 1))
return 1
`)

// RedisFeedCache implements FeedCache using Redis Sorted Sets.
type RedisFeedCache struct {
	client *redis.Client
}

// NewFeedCache creates a new FeedCache backed by Redis.
func NewFeedCache(client *redis.Client) FeedCache {
	return &RedisFeedCache{client: client}
}

func feedKey(userID uuid.UUID) string {
	return FeedCachePrefix + userID.String()
}

func (c *RedisFeedCache) AddSession(ctx context.Context, userID, sessionID uuid.UUID, score int64) (bool, error) {
	logger := logging.Component("feed_cache")

	added, err := addIfCached.Run(ctx, c.client,
		[]string{feedKey(userID)},
		score, sessionID.String(), FeedCacheCap,
	).Int()
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID.String()).Str("session_id", sessionID.String()).
			Msg("AddSession failed")
		return false, fmt.Errorf("add session to feed: %w", err)
	}

	logger.Debug().Str("user_id", userID.String()).Str("session_id", sessionID.String()).
		Bool("added", added == 1).Msg("AddSession")
	return added == 1, nil
}

func (c *RedisFeedCache) RemoveSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	if err := c.client.ZRem(ctx, feedKey(userID), sessionID.String()).Err(); err != nil {
		return fmt.Errorf("remove session from feed: %w", err)
	}
	return nil
}

func (c *RedisFeedCache) GetFeed(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	key := feedKey(userID)
	logger := logging.Component("feed_cache")
	startTime := time.Now()

	members, err := c.client.ZRevRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID.String()).Msg("GetFeed failed")
		return nil, fmt.Errorf("get feed: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			logger.Warn().Str("member", m).Msg("Skipping malformed feed member")
			continue
		}
		ids = append(ids, id)
	}

	logger.Debug().Str("user_id", userID.String()).Int("returned", len(ids)).
		Dur("duration", time.Since(startTime)).Msg("GetFeed")
	return ids, nil
}

// WarmCache bulk-inserts sessions into a user's feed cache using a pipeline.
func (c *RedisFeedCache) WarmCache(ctx context.Context, userID uuid.UUID, sessions []model.SessionScore) error {
	if len(sessions) == 0 {
		return nil
	}

	key := feedKey(userID)
	startTime := time.Now()

	members := make([]redis.Z, len(sessions))
	for i, s := range sessions {
		members[i] = redis.Z{
			Score:  float64(s.Score),
			Member: s.SessionID.String(),
		}
	}

	pipe := c.client.Pipeline()
	pipe.ZAdd(ctx, key, members...)
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-FeedCacheCap-1))
	pipe.Expire(ctx, key, FeedCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("warm cache: %w", err)
	}

	logger := logging.Component("feed_cache")
	logger.Debug().Str("user_id", userID.String()).Int("sessions", len(sessions)).
		Dur("duration", time.Since(startTime)).Msg("WarmCache")
	return nil
}

func (c *RedisFeedCache) Size(ctx context.Context, userID uuid.UUID) (int64, error) {
	size, err := c.client.ZCard(ctx, feedKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("get cache size: %w", err)
	}
	return size, nil
}

func (c *RedisFeedCache) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	n, err := c.client.Exists(ctx, feedKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("check cache exists: %w", err)
	}
	return n > 0, nil
}

func (c *RedisFeedCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = feedKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate feeds: %w", err)
	}
	return nil
}
