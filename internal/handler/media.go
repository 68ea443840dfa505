package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"climbtracker/internal/httputil"
	"climbtracker/internal/model"
)

type MediaService interface {
	PresignSessionUpload(ctx context.Context, sessionID uuid.UUID, req *model.PresignUploadRequest) (*model.PresignUploadResponse, error)
}

type MediaHandler struct {
	mediaService MediaService
}

func NewMediaHandler(mediaService MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// PresignSessionUpload handles POST /sessions/{id}/media/presign
// Returns a presigned URL for uploading a session photo or clip directly to storage.
func (h *MediaHandler) PresignSessionUpload(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := urlUUID(w, r, "id", "session")
	if !ok {
		return
	}

	var req model.PresignUploadRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.mediaService.PresignSessionUpload(r.Context(), sessionID, &req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to create upload URL")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}
