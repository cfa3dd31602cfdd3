package service

import (
	"testing"

	"socialnet/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestGetProfile(t *testing.T) {
	t.Run("Cache miss builds profile with live counts", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockCache := new(MockCacheService)
		service := NewUserService(mockRepo, mockCache)

		target := createTestUser(2, "bob")
		mockCache.On("Get", mock.Anything, "profile:bob", mock.Anything).Return(cache.ErrCacheMiss)
		mockRepo.On("GetByUsername", "bob").Return(target, nil)
		mockRepo.On("CountFollowers", uint(2)).Return(int64(5), nil)
		mockRepo.On("CountFollowing", uint(2)).Return(int64(3), nil)
		mockRepo.On("CountPosts", uint(2)).Return(int64(7), nil)
		mockCache.On("Set", mock.Anything, "profile:bob", mock.Anything, mock.Anything).Return(nil)
		mockRepo.On("IsFollowing", uint(1), uint(2)).Return(true, nil)

		profile, err := service.GetProfile(1, "bob")

		assert.NoError(t, err)
		assert.Equal(t, int64(5), profile.FollowersCount)
		assert.Equal(t, int64(3), profile.FollowingCount)
		assert.Equal(t, int64(7), profile.PostsCount)
		assert.True(t, profile.IsFollowing)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Anonymous viewer never gets isFollowing", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockCache := new(MockCacheService)
		service := NewUserService(mockRepo, mockCache)

		target := createTestUser(2, "bob")
		mockCache.On("Get", mock.Anything, "profile:bob", mock.Anything).Return(cache.ErrCacheMiss)
		mockRepo.On("GetByUsername", "bob").Return(target, nil)
		mockRepo.On("CountFollowers", uint(2)).Return(int64(0), nil)
		mockRepo.On("CountFollowing", uint(2)).Return(int64(0), nil)
		mockRepo.On("CountPosts", uint(2)).Return(int64(0), nil)
		mockCache.On("Set", mock.Anything, "profile:bob", mock.Anything, mock.Anything).Return(nil)

		profile, err := service.GetProfile(0, "bob")

		assert.NoError(t, err)
		assert.False(t, profile.IsFollowing)
		mockRepo.AssertNotCalled(t, "IsFollowing", mock.Anything, mock.Anything)
	})

	t.Run("Unknown username returns not found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockCache := new(MockCacheService)
		service := NewUserService(mockRepo, mockCache)

		mockCache.On("Get", mock.Anything, "profile:ghost", mock.Anything).Return(cache.ErrCacheMiss)
		mockRepo.On("GetByUsername", "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.GetProfile(1, "ghost")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestFollow(t *testing.T) {
	t.Run("Follow creates edge in transaction", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockCache := new(MockCacheService)
		service := NewUserService(mockRepo, mockCache)

		target := createTestUser(2, "bob")
		mockRepo.On("GetByUsername", "bob").Return(target, nil)
		mockRepo.On("Transaction", mock.Anything).Return(nil)
		mockRepo.On("CreateFollow", uint(1), uint(2)).Return(nil)
		mockCache.On("Delete", mock.Anything, "profile:bob").Return(nil)

		err := service.Follow(1, "bob")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Self follow rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockCache := new(MockCacheService)
		service := NewUserService(mockRepo, mockCache)

		self := createTestUser(1, "alice")
		mockRepo.On("GetByUsername", "alice").Return(self, nil)

		err := service.Follow(1, "alice")

		assert.ErrorIs(t, err, ErrSelfFollow)
		mockRepo.AssertNotCalled(t, "CreateFollow", mock.Anything, mock.Anything)
	})

	t.Run("Repeated follow is a no-op", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockCache := new(MockCacheService)
		service := NewUserService(mockRepo, mockCache)

		target := createTestUser(2, "bob")
		mockRepo.On("GetByUsername", "bob").Return(target, nil)
		mockRepo.On("Transaction", mock.Anything).Return(nil)
		// 重复插入由 ON CONFLICT DO NOTHING 吸收，仓库层不报错
		mockRepo.On("CreateFollow", uint(1), uint(2)).Return(nil)
		mockCache.On("Delete", mock.Anything, "profile:bob").Return(nil)

		assert.NoError(t, service.Follow(1, "bob"))
		assert.NoError(t, service.Follow(1, "bob"))
	})

	t.Run("Unfollow deletes edge", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockCache := new(MockCacheService)
		service := NewUserService(mockRepo, mockCache)

		target := createTestUser(2, "bob")
		mockRepo.On("GetByUsername", "bob").Return(target, nil)
		mockRepo.On("Transaction", mock.Anything).Return(nil)
		mockRepo.On("DeleteFollow", uint(1), uint(2)).Return(nil)
		mockCache.On("Delete", mock.Anything, "profile:bob").Return(nil)

		err := service.Unfollow(1, "bob")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Follow unknown user returns not found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockCache := new(MockCacheService)
		service := NewUserService(mockRepo, mockCache)

		mockRepo.On("GetByUsername", "ghost").Return(nil, gorm.ErrRecordNotFound)

		err := service.Follow(1, "ghost")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("Partial update only touches provided fields", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockCache := new(MockCacheService)
		service := NewUserService(mockRepo, mockCache)

		user := createTestUser(1, "alice")
		user.Bio = "old bio"
		user.Location = "Paris"
		mockRepo.On("GetByID", uint(1)).Return(user, nil)
		mockRepo.On("Update", mock.Anything).Return(nil)
		mockCache.On("Delete", mock.Anything, "profile:alice").Return(nil)

		bio := "new bio"
		updated, err := service.UpdateProfile(1, ProfileUpdateInput{Bio: &bio})

		assert.NoError(t, err)
		assert.Equal(t, "new bio", updated.Bio)
		assert.Equal(t, "Paris", updated.Location)
	})
}
