package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"climbtracker/internal/httputil"
	"climbtracker/internal/model"
)

type FriendshipService interface {
	Request(ctx context.Context, requesterID, addresseeID uuid.UUID) (*model.Friendship, error)
	Accept(ctx context.Context, friendshipID uuid.UUID) (*model.Friendship, error)
	Friends(ctx context.Context, userID uuid.UUID) ([]model.User, error)
	PendingRequests(ctx context.Context, userID uuid.UUID) ([]model.FriendRequest, error)
}

type FriendshipHandler struct {
	friendshipService FriendshipService
}

func NewFriendshipHandler(friendshipService FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: friendshipService}
}

// Request handles POST /friendships?requester_id=&addressee_id=
func (h *FriendshipHandler) Request(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := queryUUID(w, r, "requester_id")
	if !ok {
		return
	}
	addresseeID, ok := queryUUID(w, r, "addressee_id")
	if !ok {
		return
	}

	friendship, err := h.friendshipService.Request(r.Context(), requesterID, addresseeID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to send friend request")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, friendship)
}

// Accept handles PUT /friendships/{id}/accept
func (h *FriendshipHandler) Accept(w http.ResponseWriter, r *http.Request) {
	friendshipID, ok := urlUUID(w, r, "id", "friendship")
	if !ok {
		return
	}

	friendship, err := h.friendshipService.Accept(r.Context(), friendshipID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to accept friend request")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, friendship)
}

// Friends handles GET /users/{id}/friends
func (h *FriendshipHandler) Friends(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlUUID(w, r, "id", "user")
	if !ok {
		return
	}

	friends, err := h.friendshipService.Friends(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to list friends")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, friends)
}

// PendingRequests handles GET /users/{id}/friend-requests
func (h *FriendshipHandler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlUUID(w, r, "id", "user")
	if !ok {
		return
	}

	requests, err := h.friendshipService.PendingRequests(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to list friend requests")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, requests)
}
