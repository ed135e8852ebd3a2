package eventlog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kalevra/GiftRally_Go/internal/domain"
	"github.com/kalevra/GiftRally_Go/internal/event"
)

// MockEventBus is a mock implementation of event.Bus
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, evt event.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(eventType event.Type, handler event.Handler) {
	m.Called(eventType, handler)
}

func TestService_Subscribe(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	mockBus := new(MockEventBus)

	eventTypes := []event.Type{
		event.GoalProgress,
		event.GoalLotteryWinner,
		event.GoalReset,
		event.AchievementUnlocked,
		event.SessionStarted,
		event.SessionEnded,
	}

	for _, et := range eventTypes {
		mockBus.On("Subscribe", et, mock.Anything).Return()
	}

	err := svc.Subscribe(mockBus)
	assert.NoError(t, err)
	mockBus.AssertExpectations(t)
}

func TestService_HandleEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("achievement unlock attributed to the viewer", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo).(*service)

		evt := event.NewAchievementUnlockedEvent("viewer42", 7, "likes-bronze", "First Sparks")
		viewerID := "viewer42"
		mockRepo.On("LogEvent", ctx, string(event.AchievementUnlocked), &viewerID, evt.Payload).Return(nil)

		err := svc.handleEvent(ctx, evt)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("goal progress attributed to the host", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo).(*service)

		goal := &domain.CommunityGoal{
			HostID:   "host1",
			Type:     domain.GoalLikes,
			Progress: 50,
			Target:   100,
		}
		evt := event.NewGoalProgressEvent(goal)
		hostID := "host1"
		mockRepo.On("LogEvent", ctx, string(event.GoalProgress), &hostID, evt.Payload).Return(nil)

		err := svc.handleEvent(ctx, evt)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown payload logged without a subject", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo).(*service)

		evt := event.Event{Type: "custom.event", Payload: map[string]interface{}{"k": "v"}}
		mockRepo.On("LogEvent", ctx, "custom.event", (*string)(nil), evt.Payload).Return(nil)

		err := svc.handleEvent(ctx, evt)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository failure surfaces the error", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo).(*service)

		evt := event.NewAchievementUnlockedEvent("viewer42", 7, "likes-bronze", "First Sparks")
		mockRepo.On("LogEvent", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))

		err := svc.handleEvent(ctx, evt)
		assert.Error(t, err)
	})
}

func TestService_CleanupOldEvents(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	ctx := context.Background()

	mockRepo.On("CleanupOldEvents", ctx, 30).Return(int64(5), nil)

	count, err := svc.CleanupOldEvents(ctx, 30)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), count)
	mockRepo.AssertExpectations(t)
}
