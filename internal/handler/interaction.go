package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"climbtracker/internal/httputil"
	"climbtracker/internal/model"
)

type InteractionService interface {
	AddComment(ctx context.Context, sessionID, userID uuid.UUID, content string) (*model.SessionComment, error)
	ListComments(ctx context.Context, sessionID uuid.UUID, limit, offset int) (*model.CommentListResponse, error)
	Like(ctx context.Context, sessionID, userID uuid.UUID) (*model.SessionLike, error)
	Unlike(ctx context.Context, sessionID, userID uuid.UUID) error
}

type InteractionHandler struct {
	interactionService InteractionService
}

func NewInteractionHandler(interactionService InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

// AddComment handles POST /sessions/{id}/comments?user_id=&content=
func (h *InteractionHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := urlUUID(w, r, "id", "session")
	if !ok {
		return
	}
	userID, ok := queryUUID(w, r, "user_id")
	if !ok {
		return
	}

	comment, err := h.interactionService.AddComment(r.Context(), sessionID, userID, r.URL.Query().Get("content"))
	if err != nil {
		writeServiceError(w, r, err, "Failed to create comment")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// ListComments handles GET /sessions/{id}/comments?limit=&offset=
func (h *InteractionHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := urlUUID(w, r, "id", "session")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", model.DefaultCommentPageSize)
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset", 0)
	if !ok {
		return
	}

	comments, err := h.interactionService.ListComments(r.Context(), sessionID, limit, offset)
	if err != nil {
		writeServiceError(w, r, err, "Failed to get comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comments)
}

// Like handles POST /sessions/{id}/like?user_id=
func (h *InteractionHandler) Like(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := urlUUID(w, r, "id", "session")
	if !ok {
		return
	}
	userID, ok := queryUUID(w, r, "user_id")
	if !ok {
		return
	}

	like, err := h.interactionService.Like(r.Context(), sessionID, userID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to like session")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, like)
}

// Unlike handles DELETE /sessions/{id}/like?user_id=
func (h *InteractionHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := urlUUID(w, r, "id", "session")
	if !ok {
		return
	}
	userID, ok := queryUUID(w, r, "user_id")
	if !ok {
		return
	}

	if err := h.interactionService.Unlike(r.Context(), sessionID, userID); err != nil {
		writeServiceError(w, r, err, "Failed to unlike session")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Like removed",
	})
}
