package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"climbtracker/internal/httputil"
	"climbtracker/internal/model"
)

type FeedService interface {
	GetFeed(ctx context.Context, userID uuid.UUID, limit int) (*model.FeedResponse, error)
}

type FeedHandler struct {
	feedService FeedService
}

func NewFeedHandler(feedService FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// GetFeed handles GET /users/{id}/feed
// Returns the newest sessions of the user's friends.
//
// Query params:
//   - limit: optional, number of sessions (default 20, max 100)
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlUUID(w, r, "id", "user")
	if !ok {
		return
	}

	limit, ok := queryInt(w, r, "limit", model.FeedDefaultLimit)
	if !ok {
		return
	}
	if limit <= 0 {
		httputil.WriteBadRequest(w, "Invalid limit parameter")
		return
	}

	feed, err := h.feedService.GetFeed(r.Context(), userID, limit)
	if err != nil {
		writeServiceError(w, r, err, "Failed to get feed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, feed)
}
