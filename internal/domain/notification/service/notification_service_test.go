package service

import (
	"testing"

	"socialnet/internal/domain/notification/model"
	userModel "socialnet/internal/domain/user/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockNotificationRepository is a mock of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(notification *model.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByUserID(userID uint) ([]model.Notification, error) {
	args := m.Called(userID)
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) GetActor(actorID uint) (*userModel.User, error) {
	args := m.Called(actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.User), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(userID, notificationID uint) error {
	args := m.Called(userID, notificationID)
	return args.Error(0)
}

func testActor(id uint, username string) *userModel.User {
	actor := &userModel.User{Username: username, FullName: "Test User"}
	actor.ID = id
	return actor
}

func TestCreateNotification(t *testing.T) {
	postID := uint(10)

	t.Run("Like produces liked message", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		service := NewNotificationService(mockRepo)

		mockRepo.On("GetActor", uint(1)).Return(testActor(1, "alice"), nil)
		mockRepo.On("Create", mock.MatchedBy(func(n *model.Notification) bool {
			return n.Message == "alice liked your post" &&
				n.UserID == 2 && n.ActorID == 1 && n.Type == model.TypeLike
		})).Return(nil)

		err := service.Create(1, 2, &postID, model.TypeLike)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Comment and share use their own verbs", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		service := NewNotificationService(mockRepo)

		mockRepo.On("GetActor", uint(1)).Return(testActor(1, "alice"), nil)
		mockRepo.On("Create", mock.MatchedBy(func(n *model.Notification) bool {
			return n.Message == "alice commented on your post"
		})).Return(nil).Once()
		mockRepo.On("Create", mock.MatchedBy(func(n *model.Notification) bool {
			return n.Message == "alice shared your post"
		})).Return(nil).Once()

		assert.NoError(t, service.Create(1, 2, &postID, model.TypeComment))
		assert.NoError(t, service.Create(1, 2, &postID, model.TypeShare))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Self action produces no notification", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		service := NewNotificationService(mockRepo)

		err := service.Create(1, 1, &postID, model.TypeLike)

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
		mockRepo.AssertNotCalled(t, "GetActor", mock.Anything)
	})
}

func TestGetUserNotifications(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	service := NewNotificationService(mockRepo)

	actor := testActor(1, "alice")
	notifications := []model.Notification{
		{ID: 2, UserID: 5, ActorID: 1, Actor: actor, Type: model.TypeLike, Message: "alice liked your post"},
		{ID: 1, UserID: 5, ActorID: 1, Actor: actor, Type: model.TypeComment, Message: "alice commented on your post"},
	}
	mockRepo.On("GetByUserID", uint(5)).Return(notifications, nil)

	result, err := service.GetUserNotifications(5)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "alice", result[0].ActorUsername)
	assert.Equal(t, model.TypeLike, result[0].Type)
}

func TestMarkRead(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	service := NewNotificationService(mockRepo)

	mockRepo.On("MarkRead", uint(5), uint(2)).Return(nil)

	assert.NoError(t, service.MarkRead(5, 2))
	mockRepo.AssertExpectations(t)
}
