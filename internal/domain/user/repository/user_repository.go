package repository

import (
	"socialnet/internal/domain/user/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository 接口定义
type UserRepository interface {
	Create(user *model.User) error
	GetByID(id uint) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByUsernameOrEmail(identifier string) (*model.User, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	Update(user *model.User) error
	GetList(excludeID uint, offset, limit int) ([]model.User, int64, error)
	Search(query string, excludeID uint) ([]model.User, error)

	// 关注图：有向边集合上的集合操作
	CreateFollow(followerID, followingID uint) error
	DeleteFollow(followerID, followingID uint) error
	IsFollowing(followerID, followingID uint) (bool, error)
	GetFollowing(userID uint) ([]model.User, error)
	CountFollowers(userID uint) (int64, error)
	CountFollowing(userID uint) (int64, error)
	CountPosts(userID uint) (int64, error)

	// Transaction 在单个数据库事务中执行 fn
	Transaction(fn func(UserRepository) error) error

	// ResolveUserID 认证网关用：用户名 -> 用户ID
	ResolveUserID(username string) (uint, error)
}

// userRepository 实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建新的仓库实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// GetByID 根据ID获取用户
func (r *userRepository) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户
func (r *userRepository) GetByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsernameOrEmail 登录标识可以是用户名或邮箱
func (r *userRepository) GetByUsernameOrEmail(identifier string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ? OR email = ?", identifier, identifier).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Update 更新用户
func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

// GetList 获取用户列表（分页），排除指定用户
func (r *userRepository) GetList(excludeID uint, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := r.db.Model(&model.User{}).Where("enabled = ?", true)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Search 按用户名/姓名模糊搜索
func (r *userRepository) Search(query string, excludeID uint) ([]model.User, error) {
	var users []model.User
	q := r.db.Where("(username ILIKE ? OR full_name ILIKE ?) AND enabled = ?",
		"%"+query+"%", "%"+query+"%", true)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Limit(20).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// --- 关注图 ---

// CreateFollow 插入关注边，已存在时静默跳过（幂等）
func (r *userRepository) CreateFollow(followerID, followingID uint) error {
	follow := model.Follow{FollowerID: followerID, FollowingID: followingID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error
}

// DeleteFollow 删除关注边，不存在时无操作（幂等）
func (r *userRepository) DeleteFollow(followerID, followingID uint) error {
	return r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{}).Error
}

func (r *userRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// GetFollowing 当前用户关注的所有用户
func (r *userRepository) GetFollowing(userID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at desc").
		Find(&users).Error
	return users, err
}

func (r *userRepository) CountFollowers(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *userRepository) CountFollowing(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

// CountPosts 用户发帖数，帖子表归 post 模块管，这里只做计数
func (r *userRepository) CountPosts(userID uint) (int64, error) {
	var count int64
	err := r.db.Table("posts").Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Transaction 在事务中执行 fn，fn 里拿到的是绑定事务的仓库
func (r *userRepository) Transaction(fn func(UserRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&userRepository{db: tx})
	})
}

// ResolveUserID 用户名 -> 用户ID，账号被禁用视为不存在
func (r *userRepository) ResolveUserID(username string) (uint, error) {
	var user model.User
	if err := r.db.Select("id").Where("username = ? AND enabled = ?", username, true).First(&user).Error; err != nil {
		return 0, err
	}
	return user.ID, nil
}
