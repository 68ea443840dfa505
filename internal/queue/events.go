package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"climbtracker/internal/model"
)

// Event types for the activity stream
const (
	EventSessionCreated     = "session_created"
	EventFriendshipAccepted = "friendship_accepted"
	EventSessionLiked       = "session_liked"
	EventSessionCommented   = "session_commented"
)

// Stream names
const (
	StreamActivity = "stream:activity"
)

// Consumer group name for feed workers
const (
	ConsumerGroupFeed = "feed_workers"
)

// StreamMaxLen bounds the stream with approximate trimming on XADD.
const StreamMaxLen = 100000

// ActivityEvent is the single envelope for everything published to the
// activity stream. Only the fields relevant to Type are set.
type ActivityEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix ms when the event was published

	// Session events
	SessionID   uuid.UUID `json:"session_id,omitempty"`
	ActorID     uuid.UUID `json:"actor_id,omitempty"` // session author, liker or commenter
	SessionDate int64     `json:"session_date,omitempty"`
	CommentID   uuid.UUID `json:"comment_id,omitempty"`

	// Friendship event
	FriendshipID uuid.UUID `json:"friendship_id,omitempty"`
	RequesterID  uuid.UUID `json:"requester_id,omitempty"`
	AddresseeID  uuid.UUID `json:"addressee_id,omitempty"`
}

// NewSessionCreatedEvent makes workers fan the session out to the author's friends.
func NewSessionCreatedEvent(s *model.ClimbingSession) ActivityEvent {
	return ActivityEvent{
		Type:        EventSessionCreated,
		Timestamp:   time.Now().UnixMilli(),
		SessionID:   s.ID,
		ActorID:     s.UserID,
		SessionDate: s.Date.UnixMilli(),
	}
}

// NewFriendshipAcceptedEvent makes workers drop both users' cached feeds.
func NewFriendshipAcceptedEvent(f *model.Friendship) ActivityEvent {
	return ActivityEvent{
		Type:         EventFriendshipAccepted,
		Timestamp:    time.Now().UnixMilli(),
		FriendshipID: f.ID,
		RequesterID:  f.RequesterID,
		AddresseeID:  f.AddresseeID,
	}
}

func NewSessionLikedEvent(sessionID, userID uuid.UUID) ActivityEvent {
	return ActivityEvent{
		Type:      EventSessionLiked,
		Timestamp: time.Now().UnixMilli(),
		SessionID: sessionID,
		ActorID:   userID,
	}
}

func NewSessionCommentedEvent(c *model.SessionComment) ActivityEvent {
	return ActivityEvent{
		Type:      EventSessionCommented,
		Timestamp: time.Now().UnixMilli(),
		SessionID: c.SessionID,
		ActorID:   c.UserID,
		CommentID: c.ID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e ActivityEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseActivityEvent parses an ActivityEvent from Redis stream message values.
func ParseActivityEvent(values map[string]interface{}) (ActivityEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return ActivityEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event ActivityEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return ActivityEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
