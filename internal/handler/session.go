package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"climbtracker/internal/httputil"
	"climbtracker/internal/model"
)

// SessionService is the subset of service.SessionService used over HTTP.
type SessionService interface {
	Create(ctx context.Context, userID uuid.UUID, req *model.CreateSessionRequest) (*model.ClimbingSession, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.ClimbingSession, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.ClimbingSession, error)
	AddClimb(ctx context.Context, sessionID uuid.UUID, req *model.ClimbRequest) (*model.Climb, error)
	UpdateClimb(ctx context.Context, sessionID, climbID uuid.UUID, req *model.ClimbRequest) (*model.Climb, error)
	DeleteClimb(ctx context.Context, sessionID, climbID uuid.UUID) error
}

type SessionHandler struct {
	sessionService SessionService
}

func NewSessionHandler(sessionService SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Create handles POST /sessions?user_id=
// The body carries the session and its nested climbs.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUUID(w, r, "user_id")
	if !ok {
		return
	}

	var req model.CreateSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.sessionService.Create(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to create session")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, session)
}

// Get handles GET /sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := urlUUID(w, r, "id", "session")
	if !ok {
		return
	}

	session, err := h.sessionService.GetByID(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to get session")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, session)
}

// ListByUser handles GET /users/{id}/sessions?limit=&offset=
func (h *SessionHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlUUID(w, r, "id", "user")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", model.DefaultSessionPageSize)
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset", 0)
	if !ok {
		return
	}

	sessions, err := h.sessionService.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		writeServiceError(w, r, err, "Failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []model.ClimbingSession{}
	}

	httputil.WriteJSON(w, http.StatusOK, sessions)
}

// AddClimb handles POST /sessions/{id}/climbs
func (h *SessionHandler) AddClimb(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := urlUUID(w, r, "id", "session")
	if !ok {
		return
	}

	var req model.ClimbRequest
	if !decodeBody(w, r, &req) {
		return
	}

	climb, err := h.sessionService.AddClimb(r.Context(), sessionID, &req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to add climb")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, climb)
}

// UpdateClimb handles PUT /sessions/{id}/climbs/{climbID}
func (h *SessionHandler) UpdateClimb(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := urlUUID(w, r, "id", "session")
	if !ok {
		return
	}
	climbID, ok := urlUUID(w, r, "climbID", "climb")
	if !ok {
		return
	}

	var req model.ClimbRequest
	if !decodeBody(w, r, &req) {
		return
	}

	climb, err := h.sessionService.UpdateClimb(r.Context(), sessionID, climbID, &req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update climb")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, climb)
}

// DeleteClimb handles DELETE /sessions/{id}/climbs/{climbID}
func (h *SessionHandler) DeleteClimb(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := urlUUID(w, r, "id", "session")
	if !ok {
		return
	}
	climbID, ok := urlUUID(w, r, "climbID", "climb")
	if !ok {
		return
	}

	if err := h.sessionService.DeleteClimb(r.Context(), sessionID, climbID); err != nil {
		writeServiceError(w, r, err, "Failed to delete climb")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Climb deleted successfully",
	})
}
