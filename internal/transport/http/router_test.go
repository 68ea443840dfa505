package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"climbtracker/internal/handler"
	"climbtracker/internal/model"
	transport "climbtracker/internal/transport/http"
)

// nopServices satisfies every handler service interface with empty results.
type nopServices struct{}

func (nopServices) Register(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	return &model.User{ID: uuid.New()}, nil
}

func (nopServices) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return &model.User{ID: id}, nil
}

func (nopServices) Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	return &model.User{ID: id}, nil
}

func (nopServices) GetProgress(ctx context.Context, userID uuid.UUID, days int) (*model.ProgressReport, error) {
	return &model.ProgressReport{PeriodDays: days}, nil
}

type nopSessions struct{}

func (nopSessions) Create(ctx context.Context, userID uuid.UUID, req *model.CreateSessionRequest) (*model.ClimbingSession, error) {
	return &model.ClimbingSession{ID: uuid.New(), UserID: userID}, nil
}

func (nopSessions) GetByID(ctx context.Context, id uuid.UUID) (*model.ClimbingSession, error) {
	return &model.ClimbingSession{ID: id}, nil
}

func (nopSessions) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.ClimbingSession, error) {
	return nil, nil
}

func (nopSessions) AddClimb(ctx context.Context, sessionID uuid.UUID, req *model.ClimbRequest) (*model.Climb, error) {
	c := req.ToClimb(sessionID)
	return &c, nil
}

func (nopSessions) UpdateClimb(ctx context.Context, sessionID, climbID uuid.UUID, req *model.ClimbRequest) (*model.Climb, error) {
	c := req.ToClimb(sessionID)
	c.ID = climbID
	return &c, nil
}

func (nopSessions) DeleteClimb(ctx context.Context, sessionID, climbID uuid.UUID) error {
	return nil
}

type nopLocations struct {
	nearbyCalls *int
}

func (nopLocations) Create(ctx context.Context, req *model.CreateLocationRequest) (*model.Location, error) {
	return &model.Location{ID: uuid.New()}, nil
}

func (nopLocations) GetByID(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	return &model.Location{ID: id}, nil
}

func (l nopLocations) Nearby(ctx context.Context, q model.NearbyQuery) ([]model.NearbyLocation, error) {
	*l.nearbyCalls++
	return []model.NearbyLocation{}, nil
}

type nopFriendships struct{}

func (nopFriendships) Request(ctx context.Context, requesterID, addresseeID uuid.UUID) (*model.Friendship, error) {
	return &model.Friendship{ID: uuid.New()}, nil
}

func (nopFriendships) Accept(ctx context.Context, friendshipID uuid.UUID) (*model.Friendship, error) {
	return &model.Friendship{ID: friendshipID, Status: model.FriendshipAccepted}, nil
}

func (nopFriendships) Friends(ctx context.Context, userID uuid.UUID) ([]model.User, error) {
	return []model.User{}, nil
}

func (nopFriendships) PendingRequests(ctx context.Context, userID uuid.UUID) ([]model.FriendRequest, error) {
	return []model.FriendRequest{}, nil
}

type nopFeed struct{}

func (nopFeed) GetFeed(ctx context.Context, userID uuid.UUID, limit int) (*model.FeedResponse, error) {
	return &model.FeedResponse{Sessions: []model.FeedSession{}}, nil
}

type nopInteractions struct{}

func (nopInteractions) AddComment(ctx context.Context, sessionID, userID uuid.UUID, content string) (*model.SessionComment, error) {
	return &model.SessionComment{ID: uuid.New(), Content: content}, nil
}

func (nopInteractions) ListComments(ctx context.Context, sessionID uuid.UUID, limit, offset int) (*model.CommentListResponse, error) {
	return &model.CommentListResponse{Comments: []model.SessionComment{}}, nil
}

func (nopInteractions) Like(ctx context.Context, sessionID, userID uuid.UUID) (*model.SessionLike, error) {
	return &model.SessionLike{ID: uuid.New()}, nil
}

func (nopInteractions) Unlike(ctx context.Context, sessionID, userID uuid.UUID) error {
	return nil
}

func newTestRouter(nearbyCalls *int, rateLimit int) http.Handler {
	return transport.NewRouter(transport.RouterConfig{
		UserHandler:        handler.NewUserHandler(nopServices{}, nopServices{}),
		SessionHandler:     handler.NewSessionHandler(nopSessions{}),
		LocationHandler:    handler.NewLocationHandler(nopLocations{nearbyCalls: nearbyCalls}),
		FriendshipHandler:  handler.NewFriendshipHandler(nopFriendships{}),
		FeedHandler:        handler.NewFeedHandler(nopFeed{}),
		InteractionHandler: handler.NewInteractionHandler(nopInteractions{}),
		CORSAllowedOrigins: []string{"*"},
		RateLimitRequests:  rateLimit,
		RateLimitWindow:    time.Minute,
	})
}

func TestRouter_Routes(t *testing.T) {
	var nearbyCalls int
	r := newTestRouter(&nearbyCalls, 0)

	uid, sid, cid := uuid.NewString(), uuid.NewString(), uuid.NewString()
	climb := `{"climb_type":"sport","grade":"5.10a","grade_system":"yds"}`

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/users/" + uid, "", http.StatusOK},
		{http.MethodGet, "/users/" + uid + "/", "", http.StatusOK},
		{http.MethodPatch, "/users/" + uid, `{"bio":"crimper"}`, http.StatusOK},
		{http.MethodGet, "/users/" + uid + "/progress", "", http.StatusOK},
		{http.MethodGet, "/users/" + uid + "/sessions", "", http.StatusOK},
		{http.MethodGet, "/users/" + uid + "/friends", "", http.StatusOK},
		{http.MethodGet, "/users/" + uid + "/friend-requests", "", http.StatusOK},
		{http.MethodGet, "/users/" + uid + "/feed", "", http.StatusOK},
		{http.MethodPost, "/sessions/?user_id=" + uid, `{"date":"2025-01-01T10:00:00Z"}`, http.StatusCreated},
		{http.MethodGet, "/sessions/" + sid, "", http.StatusOK},
		{http.MethodPost, "/sessions/" + sid + "/climbs", climb, http.StatusCreated},
		{http.MethodPut, "/sessions/" + sid + "/climbs/" + cid, climb, http.StatusOK},
		{http.MethodDelete, "/sessions/" + sid + "/climbs/" + cid, "", http.StatusOK},
		{http.MethodPost, "/sessions/" + sid + "/comments?user_id=" + uid + "&content=nice", "", http.StatusCreated},
		{http.MethodGet, "/sessions/" + sid + "/comments", "", http.StatusOK},
		{http.MethodPost, "/sessions/" + sid + "/like?user_id=" + uid, "", http.StatusCreated},
		{http.MethodDelete, "/sessions/" + sid + "/like?user_id=" + uid, "", http.StatusOK},
		{http.MethodGet, "/locations/" + uuid.NewString(), "", http.StatusOK},
		{http.MethodPost, "/friendships?requester_id=" + uid + "&addressee_id=" + uuid.NewString(), "", http.StatusCreated},
		{http.MethodPut, "/friendships/" + uuid.NewString() + "/accept", "", http.StatusOK},
		{http.MethodGet, "/posts", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRouter_NearbyIsNotALocationID(t *testing.T) {
	var nearbyCalls int
	r := newTestRouter(&nearbyCalls, 0)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/locations/nearby?latitude=1&longitude=2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if nearbyCalls != 1 {
		t.Errorf("nearby calls = %d, want 1", nearbyCalls)
	}
}

func TestRouter_MediaRouteRequiresStorage(t *testing.T) {
	var nearbyCalls int
	r := newTestRouter(&nearbyCalls, 0)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/"+uuid.NewString()+"/media/presign", strings.NewReader(`{}`)))

	if rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want route to be absent", rec.Code)
	}
}

func TestRouter_RateLimitByIP(t *testing.T) {
	var nearbyCalls int
	r := newTestRouter(&nearbyCalls, 2)

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		last = rec.Code
	}

	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	var nearbyCalls int
	r := newTestRouter(&nearbyCalls, 0)

	req := httptest.NewRequest(http.MethodOptions, "/sessions", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("missing Access-Control-Allow-Origin on preflight")
	}
}
