package service

import (
	"context"
	"errors"
	"time"

	"socialnet/internal/domain/user/model"
	"socialnet/internal/domain/user/repository"
	"socialnet/pkg/cache"
	"socialnet/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrSelfFollow   = errors.New("users cannot follow themselves")
)

// Profile 个人主页视图
type Profile struct {
	ID              uint   `json:"id"`
	Username        string `json:"username"`
	FullName        string `json:"fullName"`
	Bio             string `json:"bio"`
	Location        string `json:"location"`
	Website         string `json:"website"`
	ProfileImage    string `json:"profileImage"`
	BackgroundImage string `json:"backgroundImage"`
	Verified        bool   `json:"verified"`
	FollowersCount  int64  `json:"followersCount"`
	FollowingCount  int64  `json:"followingCount"`
	PostsCount      int64  `json:"postsCount"`
	IsFollowing     bool   `json:"isFollowing"`
}

// UserSuggestion 用户检索/推荐条目
type UserSuggestion struct {
	Username     string `json:"username"`
	FullName     string `json:"fullName"`
	ProfileImage string `json:"profileImage"`
	Verified     bool   `json:"verified"`
}

// ProfileUpdateInput 资料更新，nil 字段表示不修改
type ProfileUpdateInput struct {
	FullName        *string
	Bio             *string
	Location        *string
	Website         *string
	ProfileImage    *string
	BackgroundImage *string
}

// UserService 用户服务接口：资料、关注图、检索
type UserService interface {
	GetProfile(viewerID uint, username string) (*Profile, error)
	UpdateProfile(userID uint, input ProfileUpdateInput) (*model.User, error)
	Follow(userID uint, targetUsername string) error
	Unfollow(userID uint, targetUsername string) error
	IsFollowing(userID uint, targetUsername string) (bool, error)
	GetFollowing(userID uint) ([]UserSuggestion, error)
	Search(viewerID uint, query string) ([]UserSuggestion, error)
	ListUsers(viewerID uint, page, limit int) ([]UserSuggestion, int64, error)
}

type userService struct {
	repo  repository.UserRepository
	cache cache.CacheService
}

const (
	profileCacheKeyPrefix = "profile:"
	profileCacheTTL       = time.Minute * 10
)

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, cacheService cache.CacheService) UserService {
	return &userService{repo: repo, cache: cacheService}
}

// cachedProfile 缓存里只放与观察者无关的部分，isFollowing 每次现查
type cachedProfile struct {
	Profile Profile `json:"profile"`
}

// GetProfile 个人主页：计数是实时 COUNT，带短 TTL 缓存
func (s *userService) GetProfile(viewerID uint, username string) (*Profile, error) {
	ctx := context.Background()

	var cp cachedProfile
	cacheErr := s.cache.Get(ctx, profileCacheKeyPrefix+username, &cp)
	if cacheErr == nil {
		profile := cp.Profile
		s.fillViewerFlags(viewerID, &profile)
		return &profile, nil
	}

	user, err := s.repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	followers, err := s.repo.CountFollowers(user.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.repo.CountFollowing(user.ID)
	if err != nil {
		return nil, err
	}
	posts, err := s.repo.CountPosts(user.ID)
	if err != nil {
		return nil, err
	}

	profile := Profile{
		ID:              user.ID,
		Username:        user.Username,
		FullName:        user.FullName,
		Bio:             user.Bio,
		Location:        user.Location,
		Website:         user.Website,
		ProfileImage:    user.ProfileImage,
		BackgroundImage: user.BackgroundImage,
		Verified:        user.Verified,
		FollowersCount:  followers,
		FollowingCount:  following,
		PostsCount:      posts,
	}

	if err := s.cache.Set(ctx, profileCacheKeyPrefix+username, cachedProfile{Profile: profile}, profileCacheTTL); err != nil {
		logger.Log.Warn("profile cache set failed", zap.String("username", username), zap.Error(err))
	}

	s.fillViewerFlags(viewerID, &profile)
	return &profile, nil
}

func (s *userService) fillViewerFlags(viewerID uint, profile *Profile) {
	if viewerID == 0 || viewerID == profile.ID {
		return
	}
	isFollowing, err := s.repo.IsFollowing(viewerID, profile.ID)
	if err != nil {
		logger.Log.Warn("isFollowing lookup failed", zap.Uint("viewer", viewerID), zap.Error(err))
		return
	}
	profile.IsFollowing = isFollowing
}

// UpdateProfile 部分更新资料
func (s *userService) UpdateProfile(userID uint, input ProfileUpdateInput) (*model.User, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Location != nil {
		user.Location = *input.Location
	}
	if input.Website != nil {
		user.Website = *input.Website
	}
	if input.ProfileImage != nil {
		user.ProfileImage = *input.ProfileImage
	}
	if input.BackgroundImage != nil {
		user.BackgroundImage = *input.BackgroundImage
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}

	s.invalidateProfile(user.Username)
	return user, nil
}

// Follow 关注：不能关注自己，重复关注是幂等空操作
// 边插入在事务里执行，唯一索引兜底并发重复请求
func (s *userService) Follow(userID uint, targetUsername string) error {
	target, err := s.repo.GetByUsername(targetUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if target.ID == userID {
		return ErrSelfFollow
	}

	err = s.repo.Transaction(func(tx repository.UserRepository) error {
		return tx.CreateFollow(userID, target.ID)
	})
	if err != nil {
		return err
	}

	s.invalidateProfile(targetUsername)
	return nil
}

// Unfollow 取消关注，结构上是 Follow 的逆操作，同样幂等
func (s *userService) Unfollow(userID uint, targetUsername string) error {
	target, err := s.repo.GetByUsername(targetUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if target.ID == userID {
		return ErrSelfFollow
	}

	err = s.repo.Transaction(func(tx repository.UserRepository) error {
		return tx.DeleteFollow(userID, target.ID)
	})
	if err != nil {
		return err
	}

	s.invalidateProfile(targetUsername)
	return nil
}

func (s *userService) IsFollowing(userID uint, targetUsername string) (bool, error) {
	target, err := s.repo.GetByUsername(targetUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return s.repo.IsFollowing(userID, target.ID)
}

// GetFollowing 当前用户关注列表
func (s *userService) GetFollowing(userID uint) ([]UserSuggestion, error) {
	users, err := s.repo.GetFollowing(userID)
	if err != nil {
		return nil, err
	}
	return toSuggestions(users), nil
}

// Search 模糊检索用户，结果不含自己
func (s *userService) Search(viewerID uint, query string) ([]UserSuggestion, error) {
	users, err := s.repo.Search(query, viewerID)
	if err != nil {
		return nil, err
	}
	return toSuggestions(users), nil
}

// ListUsers 用户推荐列表（分页，不含自己）
func (s *userService) ListUsers(viewerID uint, page, limit int) ([]UserSuggestion, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit
	users, total, err := s.repo.GetList(viewerID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return toSuggestions(users), total, nil
}

func (s *userService) invalidateProfile(username string) {
	if err := s.cache.Delete(context.Background(), profileCacheKeyPrefix+username); err != nil {
		logger.Log.Warn("profile cache invalidation failed", zap.String("username", username), zap.Error(err))
	}
}

func toSuggestions(users []model.User) []UserSuggestion {
	suggestions := make([]UserSuggestion, 0, len(users))
	for _, u := range users {
		suggestions = append(suggestions, UserSuggestion{
			Username:     u.Username,
			FullName:     u.FullName,
			ProfileImage: u.ProfileImage,
			Verified:     u.Verified,
		})
	}
	return suggestions
}
