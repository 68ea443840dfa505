package queue_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"climbtracker/internal/model"
	"climbtracker/internal/queue"
)

func TestParseActivityEvent_RejectsMissingData(t *testing.T) {
	if _, err := queue.ParseActivityEvent(map[string]interface{}{"type": "x"}); err == nil {
		t.Error("expected error for missing data field")
	}
	if _, err := queue.ParseActivityEvent(map[string]interface{}{"data": "{not json"}); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestNewSessionCreatedEvent_ScoresBySessionDate(t *testing.T) {
	date := time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)
	s := &model.ClimbingSession{ID: uuid.New(), UserID: uuid.New(), Date: date}

	event := queue.NewSessionCreatedEvent(s)

	values, err := event.ToMap()
	if err != nil {
		t.Fatalf("ToMap failed: %v", err)
	}
	parsed, err := queue.ParseActivityEvent(values)
	if err != nil {
		t.Fatalf("ParseActivityEvent failed: %v", err)
	}

	if parsed.Type != queue.EventSessionCreated {
		t.Errorf("type = %q, want %q", parsed.Type, queue.EventSessionCreated)
	}
	if parsed.SessionDate != date.UnixMilli() {
		t.Errorf("session_date = %d, want %d", parsed.SessionDate, date.UnixMilli())
	}
	if parsed.SessionID != s.ID || parsed.ActorID != s.UserID {
		t.Error("session and author IDs must survive the stream encoding")
	}
}

func setupTestRedis(t *testing.T) *redis.Client {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}
	opts.DB = 1

	client := redis.NewClient(opts)
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}
	client.FlushDB(ctx)
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func TestPublishReadAck(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	stream := "stream:test"
	group := "test_group"

	publisher := queue.NewPublisher(client)
	consumer := queue.NewConsumer(client)

	if err := consumer.EnsureGroup(ctx, stream, group); err != nil {
		t.Fatalf("EnsureGroup failed: %v", err)
	}
	// Second call hits BUSYGROUP and must be treated as success.
	if err := consumer.EnsureGroup(ctx, stream, group); err != nil {
		t.Fatalf("EnsureGroup second call failed: %v", err)
	}

	sessionID, userID := uuid.New(), uuid.New()
	if _, err := publisher.Publish(ctx, stream, queue.NewSessionLikedEvent(sessionID, userID)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	messages, err := consumer.Read(ctx, stream, group, "worker-1", 10, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
	if messages[0].Event.SessionID != sessionID {
		t.Errorf("session_id = %s, want %s", messages[0].Event.SessionID, sessionID)
	}

	pending, err := consumer.ReadPending(ctx, stream, group, "worker-1", 10)
	if err != nil {
		t.Fatalf("ReadPending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("got %d pending, want 1 before ack", len(pending))
	}

	if err := consumer.Ack(ctx, stream, group, messages[0].ID); err != nil {
		t.Fatalf("Ack failed: %v", err)
	}

	pending, _ = consumer.ReadPending(ctx, stream, group, "worker-1", 10)
	if len(pending) != 0 {
		t.Errorf("got %d pending after ack, want 0", len(pending))
	}
}
