package service

import (
	"testing"

	"socialnet/internal/domain/user/model"
	"socialnet/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestSignup(t *testing.T) {
	t.Run("Signup success returns token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo)

		mockRepo.On("ExistsByUsername", "alice").Return(false, nil)
		mockRepo.On("ExistsByEmail", "alice@example.com").Return(false, nil)
		mockRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil).Run(func(args mock.Arguments) {
			args.Get(0).(*model.User).ID = 1
		})

		result, err := service.Signup("alice", "alice@example.com", "secret123", "Alice")

		assert.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "alice", result.User.Username)
		// 密码必须已经哈希
		assert.NotEqual(t, "secret123", result.User.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.User.Password), []byte("secret123")))

		claims, err := utils.ParseToken(result.Token)
		assert.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate username rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo)

		mockRepo.On("ExistsByUsername", "alice").Return(true, nil)

		_, err := service.Signup("alice", "new@example.com", "secret123", "")

		assert.ErrorIs(t, err, ErrDuplicateUsername)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Duplicate email rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo)

		mockRepo.On("ExistsByUsername", "bob").Return(false, nil)
		mockRepo.On("ExistsByEmail", "alice@example.com").Return(true, nil)

		_, err := service.Signup("bob", "alice@example.com", "secret123", "")

		assert.ErrorIs(t, err, ErrDuplicateEmail)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)

	t.Run("Valid credentials success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo)

		user := createTestUser(1, "alice")
		user.Password = string(hashed)
		mockRepo.On("GetByUsernameOrEmail", "alice").Return(user, nil)

		result, err := service.Login("alice", "secret123")

		assert.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.NotNil(t, result.ExpiresAt)
	})

	t.Run("Wrong password rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo)

		user := createTestUser(1, "alice")
		user.Password = string(hashed)
		mockRepo.On("GetByUsernameOrEmail", "alice").Return(user, nil)

		_, err := service.Login("alice", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown user gets same error as wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo)

		mockRepo.On("GetByUsernameOrEmail", "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.Login("ghost", "whatever")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Disabled account rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo)

		user := createTestUser(1, "alice")
		user.Password = string(hashed)
		user.Enabled = false
		mockRepo.On("GetByUsernameOrEmail", "alice").Return(user, nil)

		_, err := service.Login("alice", "secret123")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
