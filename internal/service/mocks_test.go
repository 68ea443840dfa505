package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"climbtracker/internal/geo"
	"climbtracker/internal/model"
	"climbtracker/internal/queue"
)

// =============================================================================
// MOCKS AND IN-MEMORY FAKES
// =============================================================================
//
// Services depend on repository interfaces, so tests swap in fakes. Users use
// function-field mocks so each test can script a response; the stateful
// tables (sessions, friendships, likes) use in-memory fakes.

// fakeTx runs fn with a nil transaction; the fakes ignore tx.
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	f.calls++
	return fn(nil)
}

type mockUserRepository struct {
	users map[uuid.UUID]*model.User

	createFn           func(ctx context.Context, user *model.User) error
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
	existsByEmailFn    func(ctx context.Context, email string) (bool, error)
	updateFn           func(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error)

	createCalls []*model.User
}

func newMockUserRepository(users ...*model.User) *mockUserRepository {
	m := &mockUserRepository{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = uuid.New()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, req)
	}
	u, ok := m.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.Bio != nil {
		u.Bio = req.Bio
	}
	if req.PreferredGradeSystem != nil {
		u.PreferredGradeSystem = *req.PreferredGradeSystem
	}
	return u, nil
}

func newUser(username string) *model.User {
	return &model.User{
		ID:                   uuid.New(),
		Username:             username,
		Email:                username + "@example.com",
		FirstName:            username,
		PreferredGradeSystem: model.GradeSystemVScale,
	}
}

type memLocationRepo struct {
	locations []model.Location

	lastBox *geo.BoundingBox
}

func (m *memLocationRepo) Create(ctx context.Context, loc *model.Location) error {
	loc.ID = uuid.New()
	m.locations = append(m.locations, *loc)
	return nil
}

func (m *memLocationRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	for i := range m.locations {
		if m.locations[i].ID == id {
			loc := m.locations[i]
			return &loc, nil
		}
	}
	return nil, model.ErrLocationNotFound
}

func (m *memLocationRepo) ListWithin(ctx context.Context, box *geo.BoundingBox, locationType *model.LocationType) ([]model.Location, error) {
	m.lastBox = box
	var out []model.Location
	for _, loc := range m.locations {
		if locationType != nil && loc.LocationType != *locationType {
			continue
		}
		if box != nil && !box.Contains(loc.Latitude, loc.Longitude) {
			continue
		}
		out = append(out, loc)
	}
	return out, nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*model.ClimbingSession
	locked   []uuid.UUID
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[uuid.UUID]*model.ClimbingSession)}
}

func (m *memSessionRepo) add(userID uuid.UUID, date time.Time) *model.ClimbingSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &model.ClimbingSession{ID: uuid.New(), UserID: userID, Date: date}
	m.sessions[s.ID] = s
	return s
}

func (m *memSessionRepo) Create(ctx context.Context, tx *sqlx.Tx, s *model.ClimbingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.ClimbingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessionRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ClimbingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ClimbingSession
	for _, id := range ids {
		if s, ok := m.sessions[id]; ok {
			out = append(out, *s)
		}
	}
	sortByDateDesc(out)
	return out, nil
}

func (m *memSessionRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	return ok, nil
}

func (m *memSessionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.ClimbingSession, error) {
	all := m.filter(func(s *model.ClimbingSession) bool { return s.UserID == userID })
	if offset >= len(all) {
		return []model.ClimbingSession{}, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memSessionRepo) ListByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.ClimbingSession, error) {
	return m.filter(func(s *model.ClimbingSession) bool {
		return s.UserID == userID && !s.Date.Before(since)
	}), nil
}

func (m *memSessionRepo) ListRecentByUsers(ctx context.Context, userIDs []uuid.UUID, limit int) ([]model.ClimbingSession, error) {
	set := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		set[id] = true
	}
	out := m.filter(func(s *model.ClimbingSession) bool { return set[s.UserID] })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memSessionRepo) UpdateMetrics(ctx context.Context, tx *sqlx.Tx, sessionID uuid.UUID, metrics model.SessionMetrics) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return model.ErrSessionNotFound
	}
	s.TotalClimbs = metrics.TotalClimbs
	s.Sends = metrics.Sends
	s.Attempts = metrics.Attempts
	s.MaxGrade = metrics.MaxGrade
	return nil
}

func (m *memSessionRepo) LockForUpdate(ctx context.Context, tx *sqlx.Tx, sessionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return model.ErrSessionNotFound
	}
	m.locked = append(m.locked, sessionID)
	return nil
}

func (m *memSessionRepo) filter(keep func(*model.ClimbingSession) bool) []model.ClimbingSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.ClimbingSession{}
	for _, s := range m.sessions {
		if keep(s) {
			out = append(out, *s)
		}
	}
	sortByDateDesc(out)
	return out
}

func sortByDateDesc(sessions []model.ClimbingSession) {
	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].Date.After(sessions[j].Date) })
}

type memClimbRepo struct {
	climbs []model.Climb
}

func (m *memClimbRepo) Create(ctx context.Context, tx *sqlx.Tx, c *model.Climb) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	m.climbs = append(m.climbs, *c)
	return nil
}

func (m *memClimbRepo) Update(ctx context.Context, tx *sqlx.Tx, c *model.Climb) error {
	for i := range m.climbs {
		if m.climbs[i].ID == c.ID && m.climbs[i].SessionID == c.SessionID {
			c.CreatedAt = m.climbs[i].CreatedAt
			m.climbs[i] = *c
			return nil
		}
	}
	return model.ErrClimbNotFound
}

func (m *memClimbRepo) Delete(ctx context.Context, tx *sqlx.Tx, sessionID, climbID uuid.UUID) error {
	for i := range m.climbs {
		if m.climbs[i].ID == climbID && m.climbs[i].SessionID == sessionID {
			m.climbs = append(m.climbs[:i], m.climbs[i+1:]...)
			return nil
		}
	}
	return model.ErrClimbNotFound
}

func (m *memClimbRepo) ListBySession(ctx context.Context, tx *sqlx.Tx, sessionID uuid.UUID) ([]model.Climb, error) {
	return m.ListBySessions(ctx, []uuid.UUID{sessionID})
}

func (m *memClimbRepo) ListBySessions(ctx context.Context, sessionIDs []uuid.UUID) ([]model.Climb, error) {
	set := make(map[uuid.UUID]bool, len(sessionIDs))
	for _, id := range sessionIDs {
		set[id] = true
	}
	out := []model.Climb{}
	for _, c := range m.climbs {
		if set[c.SessionID] {
			out = append(out, c)
		}
	}
	return out, nil
}

type memFriendshipRepo struct {
	friendships []*model.Friendship
}

func (m *memFriendshipRepo) Create(ctx context.Context, tx *sqlx.Tx, requesterID, addresseeID uuid.UUID) (*model.Friendship, error) {
	// Mirrors the unordered-pair unique index.
	if exists, _ := m.ExistsBetween(ctx, tx, requesterID, addresseeID); exists {
		return nil, model.ErrFriendshipExists
	}
	f := &model.Friendship{
		ID:          uuid.New(),
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      model.FriendshipPending,
		CreatedAt:   time.Now(),
	}
	m.friendships = append(m.friendships, f)
	return f, nil
}

func (m *memFriendshipRepo) ExistsBetween(ctx context.Context, tx *sqlx.Tx, a, b uuid.UUID) (bool, error) {
	for _, f := range m.friendships {
		if (f.RequesterID == a && f.AddresseeID == b) || (f.RequesterID == b && f.AddresseeID == a) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memFriendshipRepo) SetStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status model.FriendshipStatus) (*model.Friendship, error) {
	for _, f := range m.friendships {
		if f.ID == id {
			f.Status = status
			cp := *f
			return &cp, nil
		}
	}
	return nil, model.ErrFriendshipNotFound
}

func (m *memFriendshipRepo) ListAccepted(ctx context.Context, userID uuid.UUID) ([]model.Friendship, error) {
	var out []model.Friendship
	for _, f := range m.friendships {
		if f.Status == model.FriendshipAccepted && (f.RequesterID == userID || f.AddresseeID == userID) {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *memFriendshipRepo) GetFriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	accepted, _ := m.ListAccepted(ctx, userID)
	ids := make([]uuid.UUID, 0, len(accepted))
	for _, f := range accepted {
		ids = append(ids, f.OtherEnd(userID))
	}
	return ids, nil
}

func (m *memFriendshipRepo) ListPendingFor(ctx context.Context, addresseeID uuid.UUID) ([]model.FriendRequest, error) {
	var out []model.FriendRequest
	for _, f := range m.friendships {
		if f.Status == model.FriendshipPending && f.AddresseeID == addresseeID {
			out = append(out, model.FriendRequest{Friendship: *f, Requester: model.UserSummary{ID: f.RequesterID}})
		}
	}
	return out, nil
}

// befriend inserts an already accepted friendship.
func (m *memFriendshipRepo) befriend(a, b uuid.UUID) {
	m.friendships = append(m.friendships, &model.Friendship{
		ID:          uuid.New(),
		RequesterID: a,
		AddresseeID: b,
		Status:      model.FriendshipAccepted,
	})
}

type memCommentRepo struct {
	comments []model.SessionComment
}

func (m *memCommentRepo) Create(ctx context.Context, c *model.SessionComment) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.comments = append(m.comments, *c)
	return nil
}

func (m *memCommentRepo) ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]model.SessionComment, bool, error) {
	var all []model.SessionComment
	for _, c := range m.comments {
		if c.SessionID == sessionID {
			all = append(all, c)
		}
	}
	if offset >= len(all) {
		return nil, false, nil
	}
	all = all[offset:]
	hasMore := len(all) > limit
	if hasMore {
		all = all[:limit]
	}
	return all, hasMore, nil
}

type likeKey struct {
	sessionID, userID uuid.UUID
}

type memLikeRepo struct {
	likes map[likeKey]*model.SessionLike
}

func newMemLikeRepo() *memLikeRepo {
	return &memLikeRepo{likes: make(map[likeKey]*model.SessionLike)}
}

func (m *memLikeRepo) Create(ctx context.Context, tx *sqlx.Tx, sessionID, userID uuid.UUID) (*model.SessionLike, error) {
	k := likeKey{sessionID, userID}
	if _, ok := m.likes[k]; ok {
		return nil, model.ErrAlreadyLiked
	}
	like := &model.SessionLike{ID: uuid.New(), SessionID: sessionID, UserID: userID, CreatedAt: time.Now()}
	m.likes[k] = like
	return like, nil
}

func (m *memLikeRepo) Exists(ctx context.Context, tx *sqlx.Tx, sessionID, userID uuid.UUID) (bool, error) {
	_, ok := m.likes[likeKey{sessionID, userID}]
	return ok, nil
}

func (m *memLikeRepo) Delete(ctx context.Context, tx *sqlx.Tx, sessionID, userID uuid.UUID) error {
	k := likeKey{sessionID, userID}
	if _, ok := m.likes[k]; !ok {
		return model.ErrNotLiked
	}
	delete(m.likes, k)
	return nil
}

type fakePublisher struct {
	events []queue.ActivityEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, stream string, event queue.ActivityEvent) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.events = append(p.events, event)
	return "1-0", nil
}

// memFeedCache mirrors the add-only-if-cached semantics of the Redis cache.
type memFeedCache struct {
	feeds     map[uuid.UUID]map[uuid.UUID]int64
	existsErr error
	removed   []uuid.UUID
}

func newMemFeedCache() *memFeedCache {
	return &memFeedCache{feeds: make(map[uuid.UUID]map[uuid.UUID]int64)}
}

func (c *memFeedCache) AddSession(ctx context.Context, userID, sessionID uuid.UUID, score int64) (bool, error) {
	feed, ok := c.feeds[userID]
	if !ok {
		return false, nil
	}
	feed[sessionID] = score
	return true, nil
}

func (c *memFeedCache) RemoveSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	c.removed = append(c.removed, sessionID)
	delete(c.feeds[userID], sessionID)
	return nil
}

func (c *memFeedCache) GetFeed(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	feed := c.feeds[userID]
	ids := make([]uuid.UUID, 0, len(feed))
	for id := range feed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return feed[ids[i]] > feed[ids[j]] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (c *memFeedCache) WarmCache(ctx context.Context, userID uuid.UUID, sessions []model.SessionScore) error {
	feed, ok := c.feeds[userID]
	if !ok {
		feed = make(map[uuid.UUID]int64)
		c.feeds[userID] = feed
	}
	for _, s := range sessions {
		feed[s.SessionID] = s.Score
	}
	return nil
}

func (c *memFeedCache) Size(ctx context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(c.feeds[userID])), nil
}

func (c *memFeedCache) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	if c.existsErr != nil {
		return false, c.existsErr
	}
	_, ok := c.feeds[userID]
	return ok, nil
}

func (c *memFeedCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	for _, id := range userIDs {
		delete(c.feeds, id)
	}
	return nil
}

func strPtr(s string) *string { return &s }

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
