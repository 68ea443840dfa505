package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"climbtracker/internal/model"
	"climbtracker/internal/queue"
)

type friendshipFixture struct {
	friendships *memFriendshipRepo
	users       *mockUserRepository
	publisher   *fakePublisher
	svc         *FriendshipService
	alice, bob  *model.User
}

func newFriendshipFixture() *friendshipFixture {
	f := &friendshipFixture{
		friendships: &memFriendshipRepo{},
		publisher:   &fakePublisher{},
		alice:       newUser("alice"),
		bob:         newUser("bob"),
	}
	f.users = newMockUserRepository(f.alice, f.bob)
	f.svc = NewFriendshipService(&fakeTx{}, f.friendships, f.users, f.publisher)
	return f
}

func TestFriendshipService_Request_ReverseDirectionConflicts(t *testing.T) {
	// ARRANGE
	f := newFriendshipFixture()
	ctx := context.Background()

	// ACT
	first, err := f.svc.Request(ctx, f.alice.ID, f.bob.ID)
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	_, err = f.svc.Request(ctx, f.bob.ID, f.alice.ID)

	// ASSERT
	if !errors.Is(err, model.ErrFriendshipExists) {
		t.Errorf("error = %v, want ErrFriendshipExists", err)
	}
	if first.Status != model.FriendshipPending {
		t.Errorf("status = %q, want pending", first.Status)
	}
	if len(f.friendships.friendships) != 1 {
		t.Errorf("rows = %d, want 1", len(f.friendships.friendships))
	}
}

func TestFriendshipService_Request_ConflictsWhateverTheStatus(t *testing.T) {
	f := newFriendshipFixture()
	f.friendships.befriend(f.alice.ID, f.bob.ID)

	_, err := f.svc.Request(context.Background(), f.alice.ID, f.bob.ID)

	if !errors.Is(err, model.ErrFriendshipExists) {
		t.Errorf("error = %v, want ErrFriendshipExists", err)
	}
}

func TestFriendshipService_Request_Validation(t *testing.T) {
	f := newFriendshipFixture()
	ctx := context.Background()

	if _, err := f.svc.Request(ctx, f.alice.ID, f.alice.ID); !errors.Is(err, model.ErrCannotFriendSelf) {
		t.Errorf("self request: error = %v, want ErrCannotFriendSelf", err)
	}
	if _, err := f.svc.Request(ctx, f.alice.ID, uuid.New()); !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("unknown addressee: error = %v, want ErrUserNotFound", err)
	}
}

func TestFriendshipService_Accept(t *testing.T) {
	f := newFriendshipFixture()
	ctx := context.Background()
	req, _ := f.svc.Request(ctx, f.alice.ID, f.bob.ID)

	accepted, err := f.svc.Accept(ctx, req.ID)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accepted.Status != model.FriendshipAccepted {
		t.Errorf("status = %q, want accepted", accepted.Status)
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0].Type != queue.EventFriendshipAccepted {
		t.Errorf("events = %v, want one friendship_accepted", f.publisher.events)
	}
	if f.publisher.events[0].RequesterID != f.alice.ID || f.publisher.events[0].AddresseeID != f.bob.ID {
		t.Error("event must carry both endpoints")
	}
}

func TestFriendshipService_Accept_NotFound(t *testing.T) {
	f := newFriendshipFixture()

	_, err := f.svc.Accept(context.Background(), uuid.New())

	if !errors.Is(err, model.ErrFriendshipNotFound) {
		t.Errorf("error = %v, want ErrFriendshipNotFound", err)
	}
	if len(f.publisher.events) != 0 {
		t.Error("no event should be published for a missing friendship")
	}
}

func TestFriendshipService_Friends(t *testing.T) {
	f := newFriendshipFixture()
	carol := newUser("carol")
	f.users.users[carol.ID] = carol
	ghost := uuid.New()

	f.friendships.befriend(f.alice.ID, f.bob.ID)
	f.friendships.befriend(carol.ID, f.alice.ID)
	f.friendships.befriend(f.alice.ID, ghost)
	// Pending rows are not friends.
	_, _ = f.friendships.Create(context.Background(), nil, f.alice.ID, uuid.New())

	friends, err := f.svc.Friends(context.Background(), f.alice.ID)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(friends) != 2 {
		t.Fatalf("got %d friends, want 2 (ghost skipped)", len(friends))
	}
	if friends[0].ID != f.bob.ID || friends[1].ID != carol.ID {
		t.Errorf("friends = [%s %s], want [bob carol]", friends[0].Username, friends[1].Username)
	}
}

func TestFriendshipService_PendingRequests(t *testing.T) {
	f := newFriendshipFixture()
	ctx := context.Background()
	_, _ = f.svc.Request(ctx, f.alice.ID, f.bob.ID)

	incoming, err := f.svc.PendingRequests(ctx, f.bob.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outgoing, _ := f.svc.PendingRequests(ctx, f.alice.ID)

	if len(incoming) != 1 || incoming[0].RequesterID != f.alice.ID {
		t.Errorf("incoming = %v, want alice's request", incoming)
	}
	if outgoing == nil || len(outgoing) != 0 {
		t.Errorf("outgoing = %v, want empty non-nil list", outgoing)
	}
}
