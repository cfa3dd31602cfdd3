package repository

import (
	"socialnet/internal/domain/post/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository 内容仓库：帖子、点赞、评论、收藏
type PostRepository interface {
	CreatePost(post *model.Post) error
	GetPostByID(id uint) (*model.Post, error)
	GetAllPosts() ([]model.Post, error)
	GetPostsByUserID(userID uint) ([]model.Post, error)
	GetSavedPosts(userID uint) ([]model.Post, error)
	UpdatePost(post *model.Post) error
	DeletePost(id uint) error
	// IncrementShareCount delta 可为负，计数下限为 0
	IncrementShareCount(id uint, delta int) error

	// 点赞/收藏：删除返回是否真的删了行，插入冲突时静默跳过
	DeleteLike(userID, postID uint) (bool, error)
	CreateLike(userID, postID uint) error
	HasLiked(userID, postID uint) (bool, error)
	CountLikes(postID uint) (int64, error)

	DeleteSave(userID, postID uint) (bool, error)
	CreateSave(userID, postID uint) error
	HasSaved(userID, postID uint) (bool, error)

	CreateComment(comment *model.Comment) error
	GetCommentByID(id uint) (*model.Comment, error)
	GetCommentsByPostID(postID uint) ([]model.Comment, error)
	UpdateComment(comment *model.Comment) error
	DeleteComment(id uint) error
	CountComments(postID uint) (int64, error)

	// 帖子删除时的级联清理
	DeleteLikesByPostID(postID uint) error
	DeleteCommentsByPostID(postID uint) error
	DeleteSavesByPostID(postID uint) error

	// Transaction 在单个数据库事务中执行 fn
	Transaction(fn func(PostRepository) error) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// --- Post ---

func (r *postRepository) CreatePost(post *model.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepository) GetPostByID(id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.Preload("User").Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetAllPosts() ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Preload("User").Order("created_at desc").Find(&posts).Error
	return posts, err
}

func (r *postRepository) GetPostsByUserID(userID uint) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Preload("User").Where("user_id = ?", userID).Order("created_at desc").Find(&posts).Error
	return posts, err
}

// GetSavedPosts 用户收藏的帖子，按收藏时间倒序
func (r *postRepository) GetSavedPosts(userID uint) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Preload("User").
		Joins("JOIN saved_posts ON saved_posts.post_id = posts.id").
		Where("saved_posts.user_id = ?", userID).
		Order("saved_posts.created_at desc").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) UpdatePost(post *model.Post) error {
	return r.db.Save(post).Error
}

func (r *postRepository) DeletePost(id uint) error {
	return r.db.Where("id = ?", id).Delete(&model.Post{}).Error
}

// IncrementShareCount 原子更新计数，GREATEST 保证不会减到负数
func (r *postRepository) IncrementShareCount(id uint, delta int) error {
	return r.db.Model(&model.Post{}).Where("id = ?", id).
		Update("share_count", gorm.Expr("GREATEST(share_count + ?, 0)", delta)).Error
}

// --- Like ---

func (r *postRepository) DeleteLike(userID, postID uint) (bool, error) {
	res := r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.Like{})
	return res.RowsAffected > 0, res.Error
}

func (r *postRepository) CreateLike(userID, postID uint) error {
	like := model.Like{UserID: userID, PostID: postID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error
}

func (r *postRepository) HasLiked(userID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Like{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

func (r *postRepository) CountLikes(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// --- SavedPost ---

func (r *postRepository) DeleteSave(userID, postID uint) (bool, error) {
	res := r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.SavedPost{})
	return res.RowsAffected > 0, res.Error
}

func (r *postRepository) CreateSave(userID, postID uint) error {
	saved := model.SavedPost{UserID: userID, PostID: postID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&saved).Error
}

func (r *postRepository) HasSaved(userID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.SavedPost{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

// --- Comment ---

func (r *postRepository) CreateComment(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *postRepository) GetCommentByID(id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.Preload("User").Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *postRepository) GetCommentsByPostID(postID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.Preload("User").Where("post_id = ?", postID).Order("created_at desc").Find(&comments).Error
	return comments, err
}

func (r *postRepository) UpdateComment(comment *model.Comment) error {
	return r.db.Save(comment).Error
}

func (r *postRepository) DeleteComment(id uint) error {
	return r.db.Where("id = ?", id).Delete(&model.Comment{}).Error
}

func (r *postRepository) CountComments(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// --- 级联清理 ---

func (r *postRepository) DeleteLikesByPostID(postID uint) error {
	return r.db.Where("post_id = ?", postID).Delete(&model.Like{}).Error
}

func (r *postRepository) DeleteCommentsByPostID(postID uint) error {
	return r.db.Where("post_id = ?", postID).Delete(&model.Comment{}).Error
}

func (r *postRepository) DeleteSavesByPostID(postID uint) error {
	return r.db.Where("post_id = ?", postID).Delete(&model.SavedPost{}).Error
}

// Transaction 在事务中执行 fn，fn 里拿到的是绑定事务的仓库
func (r *postRepository) Transaction(fn func(PostRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&postRepository{db: tx})
	})
}
