package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"Quill/internal/core/engagement"
	"Quill/internal/core/presence"
)

type mockNotificationRepository struct {
	mock.Mock
}

func (m *mockNotificationRepository) Insert(ctx context.Context, n *Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *mockNotificationRepository) ListByRecipient(ctx context.Context, userID string) ([]*Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Notification), args.Error(1)
}

func (m *mockNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// staticNames resolves every user to a fixed name
type staticNames struct {
	name string
	err  error
}

func (s *staticNames) GetName(_ context.Context, _ string) (string, error) {
	return s.name, s.err
}

// recordingPusher captures push attempts
type recordingPusher struct {
	sessions []string
	events   []string
	payloads []interface{}
	err      error
}

func (p *recordingPusher) Push(sessionID, event string, payload interface{}) error {
	p.sessions = append(p.sessions, sessionID)
	p.events = append(p.events, event)
	p.payloads = append(p.payloads, payload)
	return p.err
}

func TestNotificationService_NotifyLike_PersistsAndPushes(t *testing.T) {
	repo := new(mockNotificationRepository)
	pusher := &recordingPusher{}
	registry := presence.NewRegistry()
	registry.Register("sess-b", "user-b")

	service := NewNotificationService(repo, &staticNames{name: "Alice"}, registry, pusher, nil)

	ctx := context.Background()
	repo.On("Insert", ctx, mock.MatchedBy(func(n *Notification) bool {
		return n.RecipientID == "user-b" &&
			n.SenderID == "user-a" &&
			n.Post.ID == "post-1" &&
			!n.IsRead &&
			n.Message == "Alice has liked your post"
	})).Return(nil)

	service.NotifyLike(ctx, engagement.LikeEvent{
		PostID:      "post-1",
		LikerID:     "user-a",
		PostOwnerID: "user-b",
	})

	repo.AssertExpectations(t)

	require.Len(t, pusher.sessions, 1)
	assert.Equal(t, "sess-b", pusher.sessions[0])
	assert.Equal(t, "newNotification", pusher.events[0])

	payload, ok := pusher.payloads[0].(PushPayload)
	require.True(t, ok)
	assert.Equal(t, "Alice has liked your post", payload.Message)
	assert.Equal(t, "post-1", payload.PostID)
	assert.NotEmpty(t, payload.DeliveryID)
}

func TestNotificationService_NotifyLike_RecipientOffline(t *testing.T) {
	repo := new(mockNotificationRepository)
	pusher := &recordingPusher{}
	registry := presence.NewRegistry()

	service := NewNotificationService(repo, &staticNames{name: "Alice"}, registry, pusher, nil)

	ctx := context.Background()
	repo.On("Insert", ctx, mock.AnythingOfType("*notifications.Notification")).Return(nil)

	service.NotifyLike(ctx, engagement.LikeEvent{
		PostID:      "post-1",
		LikerID:     "user-a",
		PostOwnerID: "user-b",
	})

	repo.AssertExpectations(t)
	assert.Empty(t, pusher.sessions, "no push without an open session")
}

func TestNotificationService_NotifyLike_PersistFailureStillPushes(t *testing.T) {
	repo := new(mockNotificationRepository)
	pusher := &recordingPusher{}
	registry := presence.NewRegistry()
	registry.Register("sess-b", "user-b")

	service := NewNotificationService(repo, &staticNames{name: "Alice"}, registry, pusher, nil)

	ctx := context.Background()
	repo.On("Insert", ctx, mock.Anything).Return(errors.New("db down"))

	// Must not panic or propagate; the like already succeeded
	service.NotifyLike(ctx, engagement.LikeEvent{
		PostID:      "post-1",
		LikerID:     "user-a",
		PostOwnerID: "user-b",
	})

	assert.Len(t, pusher.sessions, 1, "stage 2 runs regardless of stage 1's outcome")
}

func TestNotificationService_NotifyLike_PushFailureAbsorbed(t *testing.T) {
	repo := new(mockNotificationRepository)
	pusher := &recordingPusher{err: errors.New("client gone")}
	registry := presence.NewRegistry()
	registry.Register("sess-b", "user-b")

	service := NewNotificationService(repo, &staticNames{name: "Alice"}, registry, pusher, nil)

	ctx := context.Background()
	repo.On("Insert", ctx, mock.Anything).Return(nil)

	service.NotifyLike(ctx, engagement.LikeEvent{
		PostID:      "post-1",
		LikerID:     "user-a",
		PostOwnerID: "user-b",
	})

	repo.AssertExpectations(t)
}

func TestNotificationService_NotifyLike_NameResolutionFallback(t *testing.T) {
	repo := new(mockNotificationRepository)
	registry := presence.NewRegistry()

	service := NewNotificationService(repo, &staticNames{err: errors.New("no such user")}, registry, nil, nil)

	ctx := context.Background()
	repo.On("Insert", ctx, mock.MatchedBy(func(n *Notification) bool {
		return n.Message == "Someone has liked your post"
	})).Return(nil)

	service.NotifyLike(ctx, engagement.LikeEvent{
		PostID:      "post-1",
		LikerID:     "ghost",
		PostOwnerID: "user-b",
	})

	repo.AssertExpectations(t)
}

func TestNotificationService_NotifyLike_NilPusher(t *testing.T) {
	repo := new(mockNotificationRepository)
	registry := presence.NewRegistry()
	registry.Register("sess-b", "user-b")

	service := NewNotificationService(repo, &staticNames{name: "Alice"}, registry, nil, nil)

	ctx := context.Background()
	repo.On("Insert", ctx, mock.Anything).Return(nil)

	// No realtime transport wired; stage 2 is skipped without panicking
	service.NotifyLike(ctx, engagement.LikeEvent{
		PostID:      "post-1",
		LikerID:     "user-a",
		PostOwnerID: "user-b",
	})

	repo.AssertExpectations(t)
}

func TestNotificationService_List(t *testing.T) {
	repo := new(mockNotificationRepository)
	service := NewNotificationService(repo, &staticNames{}, presence.NewRegistry(), nil, nil)

	ctx := context.Background()
	expected := []*Notification{
		{ID: "n-2", RecipientID: "user-b"},
		{ID: "n-1", RecipientID: "user-b"},
	}
	repo.On("ListByRecipient", ctx, "user-b").Return(expected, nil)

	result, err := service.List(ctx, "user-b")
	require.NoError(t, err)
	assert.Equal(t, expected, result)

	_, err = service.List(ctx, "")
	assert.Error(t, err)
}

func TestNotificationService_MarkAllRead_RecipientScoped(t *testing.T) {
	repo := new(mockNotificationRepository)
	service := NewNotificationService(repo, &staticNames{}, presence.NewRegistry(), nil, nil)

	ctx := context.Background()
	repo.On("MarkAllRead", ctx, "user-b").Return(int64(3), nil)

	err := service.MarkAllRead(ctx, "user-b")
	require.NoError(t, err)

	repo.AssertCalled(t, "MarkAllRead", ctx, "user-b")
	repo.AssertNumberOfCalls(t, "MarkAllRead", 1)

	err = service.MarkAllRead(ctx, "")
	assert.Error(t, err)
}
