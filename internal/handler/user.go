package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"climbtracker/internal/httputil"
	"climbtracker/internal/model"
)

// UserService is the subset of service.UserService used over HTTP.
type UserService interface {
	Register(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error)
}

// ProgressService computes a user's progress report.
type ProgressService interface {
	GetProgress(ctx context.Context, userID uuid.UUID, days int) (*model.ProgressReport, error)
}

type UserHandler struct {
	userService     UserService
	progressService ProgressService
}

func NewUserHandler(userService UserService, progressService ProgressService) *UserHandler {
	return &UserHandler{
		userService:     userService,
		progressService: progressService,
	}
}

// Create handles POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to create user")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlUUID(w, r, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to get user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// Update handles PATCH /users/{id}
// Only fields present in the body are changed.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlUUID(w, r, "id", "user")
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.userService.Update(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// Progress handles GET /users/{id}/progress?days=
func (h *UserHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlUUID(w, r, "id", "user")
	if !ok {
		return
	}
	days, ok := queryInt(w, r, "days", model.DefaultProgressDays)
	if !ok {
		return
	}

	report, err := h.progressService.GetProgress(r.Context(), userID, days)
	if err != nil {
		writeServiceError(w, r, err, "Failed to compute progress")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, report)
}
