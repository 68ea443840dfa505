package service

import (
	"context"

	"climbtracker/internal/logging"
	"climbtracker/internal/metrics"
	"climbtracker/internal/queue"
)

// publish writes an activity event after the owning transaction has committed.
// Failures are logged and counted; the write that triggered the event stands.
// A nil publisher means Redis is not configured.
func publish(ctx context.Context, publisher queue.Publisher, event queue.ActivityEvent) {
	if publisher == nil {
		return
	}

	logger := logging.Component("events")
	msgID, err := publisher.Publish(ctx, queue.StreamActivity, event)
	if err != nil {
		metrics.EventsPublishFailed.WithLabelValues(event.Type).Inc()
		logger.Error().Err(err).Str("type", event.Type).Msg("Failed to publish event")
		return
	}
	logger.Debug().Str("type", event.Type).Str("msg_id", msgID).Msg("Published event")
}
