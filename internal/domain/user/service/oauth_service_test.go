package service

import (
	"context"
	"strings"
	"testing"

	"socialnet/internal/domain/user/model"
	"socialnet/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newTestOAuthService(repo *MockUserRepository, cacheService *MockCacheService, identity *GoogleIdentity) OAuthService {
	svc := NewOAuthService(repo, cacheService, GoogleOAuthParams{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/callback",
	})
	svc.(*oauthService).fetchIdentity = func(ctx context.Context, code string) (*GoogleIdentity, error) {
		return identity, nil
	}
	return svc
}

func TestAuthURL(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockCache := new(MockCacheService)
	service := newTestOAuthService(mockRepo, mockCache, nil)

	mockCache.On("SetString", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "oauth:state:")
	}), "1", mock.Anything).Return(nil)

	url, err := service.AuthURL(context.Background())

	assert.NoError(t, err)
	assert.Contains(t, url, "state=")
	assert.Contains(t, url, "client_id=client")
	mockCache.AssertExpectations(t)
}

func TestHandleCallback(t *testing.T) {
	identity := &GoogleIdentity{
		Email:     "carol@example.com",
		Name:      "Carol Jones",
		GivenName: "carol",
	}

	t.Run("Existing email logs in without creating account", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockCache := new(MockCacheService)
		service := newTestOAuthService(mockRepo, mockCache, identity)

		existing := createTestUser(3, "carol")
		existing.Email = "carol@example.com"
		mockCache.On("Take", mock.Anything, "oauth:state:abc").Return("1", nil)
		mockRepo.On("GetByEmail", "carol@example.com").Return(existing, nil)

		result, err := service.HandleCallback(context.Background(), "code", "abc")

		assert.NoError(t, err)
		assert.Equal(t, "carol", result.User.Username)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("New email creates account with unique username", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockCache := new(MockCacheService)
		service := newTestOAuthService(mockRepo, mockCache, identity)

		mockCache.On("Take", mock.Anything, "oauth:state:abc").Return("1", nil)
		mockRepo.On("GetByEmail", "carol@example.com").Return(nil, gorm.ErrRecordNotFound)
		// carol 和 carol1 已被占用，落到 carol2
		mockRepo.On("ExistsByUsername", "carol").Return(true, nil)
		mockRepo.On("ExistsByUsername", "carol1").Return(true, nil)
		mockRepo.On("ExistsByUsername", "carol2").Return(false, nil)
		mockRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil).Run(func(args mock.Arguments) {
			args.Get(0).(*model.User).ID = 9
		})

		result, err := service.HandleCallback(context.Background(), "code", "abc")

		assert.NoError(t, err)
		assert.Equal(t, "carol2", result.User.Username)
		assert.Empty(t, result.User.Password)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unknown state rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockCache := new(MockCacheService)
		service := newTestOAuthService(mockRepo, mockCache, identity)

		mockCache.On("Take", mock.Anything, "oauth:state:bad").Return("", cache.ErrCacheMiss)

		_, err := service.HandleCallback(context.Background(), "code", "bad")

		assert.ErrorIs(t, err, ErrStateMismatch)
		mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything)
	})

	t.Run("Empty state rejected without cache lookup", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockCache := new(MockCacheService)
		service := newTestOAuthService(mockRepo, mockCache, identity)

		_, err := service.HandleCallback(context.Background(), "code", "")

		assert.ErrorIs(t, err, ErrStateMismatch)
		mockCache.AssertNotCalled(t, "Take", mock.Anything, mock.Anything)
	})
}
