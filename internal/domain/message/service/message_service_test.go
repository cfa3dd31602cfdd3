package service

import (
	"os"
	"testing"
	"time"

	"socialnet/internal/domain/message/model"
	userModel "socialnet/internal/domain/user/model"
	userRepo "socialnet/internal/domain/user/repository"
	"socialnet/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	_ = logger.Init(true)
	os.Exit(m.Run())
}

// MockMessageRepository is a mock of MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(message *model.Message) error {
	args := m.Called(message)
	return args.Error(0)
}

func (m *MockMessageRepository) GetByID(id uint) (*model.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageRepository) GetConversation(userID, otherID uint) ([]model.Message, error) {
	args := m.Called(userID, otherID)
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MockMessageRepository) GetLatestMessagesForConversations(userID uint) ([]model.Message, error) {
	args := m.Called(userID)
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MockMessageRepository) CountUnread(userID, otherID uint) (int64, error) {
	args := m.Called(userID, otherID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) MarkConversationRead(userID, otherID uint) error {
	args := m.Called(userID, otherID)
	return args.Error(0)
}

// MockUserRepository 只有 GetByUsername 会被私信服务用到，其余方法留空实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByUsername(username string) (*userModel.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.User), args.Error(1)
}

func (m *MockUserRepository) Create(user *userModel.User) error              { return nil }
func (m *MockUserRepository) GetByID(id uint) (*userModel.User, error)      { return nil, nil }
func (m *MockUserRepository) GetByEmail(email string) (*userModel.User, error) {
	return nil, nil
}
func (m *MockUserRepository) GetByUsernameOrEmail(identifier string) (*userModel.User, error) {
	return nil, nil
}
func (m *MockUserRepository) ExistsByUsername(username string) (bool, error) { return false, nil }
func (m *MockUserRepository) ExistsByEmail(email string) (bool, error)       { return false, nil }
func (m *MockUserRepository) Update(user *userModel.User) error              { return nil }
func (m *MockUserRepository) GetList(excludeID uint, offset, limit int) ([]userModel.User, int64, error) {
	return nil, 0, nil
}
func (m *MockUserRepository) Search(query string, excludeID uint) ([]userModel.User, error) {
	return nil, nil
}
func (m *MockUserRepository) CreateFollow(followerID, followingID uint) error  { return nil }
func (m *MockUserRepository) DeleteFollow(followerID, followingID uint) error  { return nil }
func (m *MockUserRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	return false, nil
}
func (m *MockUserRepository) GetFollowing(userID uint) ([]userModel.User, error) { return nil, nil }
func (m *MockUserRepository) CountFollowers(userID uint) (int64, error)          { return 0, nil }
func (m *MockUserRepository) CountFollowing(userID uint) (int64, error)          { return 0, nil }
func (m *MockUserRepository) CountPosts(userID uint) (int64, error)              { return 0, nil }
func (m *MockUserRepository) Transaction(fn func(userRepo.UserRepository) error) error {
	return fn(m)
}
func (m *MockUserRepository) ResolveUserID(username string) (uint, error) { return 0, nil }

func testUser(id uint, username string) *userModel.User {
	user := &userModel.User{Username: username, FullName: "Test User"}
	user.ID = id
	return user
}

func TestSendMessage(t *testing.T) {
	t.Run("Message to existing user is stored", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		mockUsers := new(MockUserRepository)
		service := NewMessageService(mockRepo, mockUsers)

		bob := testUser(2, "bob")
		mockUsers.On("GetByUsername", "bob").Return(bob, nil)
		mockRepo.On("Create", mock.MatchedBy(func(msg *model.Message) bool {
			return msg.SenderID == 1 && msg.ReceiverID == 2 && msg.Content == "hi"
		})).Return(nil).Run(func(args mock.Arguments) {
			args.Get(0).(*model.Message).ID = 7
		})
		stored := &model.Message{ID: 7, SenderID: 1, ReceiverID: 2, Content: "hi", Sender: testUser(1, "alice")}
		mockRepo.On("GetByID", uint(7)).Return(stored, nil)

		result, err := service.SendMessage(1, "bob", "hi")

		assert.NoError(t, err)
		assert.Equal(t, "hi", result.Content)
		assert.True(t, result.Mine)
		assert.Equal(t, "alice", result.SenderUsername)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unknown receiver rejected", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		mockUsers := new(MockUserRepository)
		service := NewMessageService(mockRepo, mockUsers)

		mockUsers.On("GetByUsername", "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.SendMessage(1, "ghost", "hi")

		assert.ErrorIs(t, err, ErrReceiverNotFound)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestGetConversation(t *testing.T) {
	t.Run("Reading a conversation marks it read", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		mockUsers := new(MockUserRepository)
		service := NewMessageService(mockRepo, mockUsers)

		bob := testUser(2, "bob")
		mockUsers.On("GetByUsername", "bob").Return(bob, nil)
		messages := []model.Message{
			{ID: 1, SenderID: 1, ReceiverID: 2, Content: "hi", Sender: testUser(1, "alice")},
			{ID: 2, SenderID: 2, ReceiverID: 1, Content: "hey", Sender: bob},
		}
		mockRepo.On("GetConversation", uint(1), uint(2)).Return(messages, nil)
		mockRepo.On("MarkConversationRead", uint(1), uint(2)).Return(nil)

		result, err := service.GetConversation(1, "bob")

		assert.NoError(t, err)
		assert.Len(t, result, 2)
		assert.True(t, result[0].Mine)
		assert.False(t, result[1].Mine)
		mockRepo.AssertCalled(t, "MarkConversationRead", uint(1), uint(2))
	})
}

func TestGetConversations(t *testing.T) {
	t.Run("Each correspondent appears once with last message", func(t *testing.T) {
		mockRepo := new(MockMessageRepository)
		mockUsers := new(MockUserRepository)
		service := NewMessageService(mockRepo, mockUsers)

		now := time.Now()
		bob := testUser(2, "bob")
		carol := testUser(3, "carol")
		latest := []model.Message{
			// 最新的会话排在前面
			{ID: 9, SenderID: 3, ReceiverID: 1, Content: "later", CreatedAt: now, Sender: carol, Receiver: testUser(1, "alice")},
			{ID: 5, SenderID: 1, ReceiverID: 2, Content: "earlier", CreatedAt: now.Add(-time.Hour), Sender: testUser(1, "alice"), Receiver: bob},
		}
		mockRepo.On("GetLatestMessagesForConversations", uint(1)).Return(latest, nil)
		mockRepo.On("CountUnread", uint(1), uint(3)).Return(int64(2), nil)
		mockRepo.On("CountUnread", uint(1), uint(2)).Return(int64(0), nil)

		result, err := service.GetConversations(1)

		assert.NoError(t, err)
		assert.Len(t, result, 2)
		assert.Equal(t, "carol", result[0].Username)
		assert.Equal(t, "later", result[0].LastMessage)
		assert.Equal(t, int64(2), result[0].UnreadCount)
		assert.Equal(t, "bob", result[1].Username)
	})
}
