package model

import (
	"time"

	userModel "socialnet/internal/domain/user/model"
	baseModel "socialnet/pkg/model"
)

// Post 帖子模型
// OriginalPostID 非空表示这是一条转发；转发链是压扁的：
// 转发一条转发会生成指向最初根帖的新帖，ShareCount 只在根帖上累加
type Post struct {
	baseModel.BaseModel
	UserID         uint            `gorm:"index;not null" json:"userId"`
	User           *userModel.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content        string          `gorm:"type:text" json:"content"`
	ImageURL       string          `json:"imageUrl"` // 逗号分隔的文件名列表
	OriginalPostID *uint           `gorm:"index" json:"originalPostId,omitempty"`
	ShareCount     int             `gorm:"default:0" json:"shareCount"`
}

// IsShare 是否为转发帖
func (p *Post) IsShare() bool {
	return p.OriginalPostID != nil
}

// Like 点赞，(user, post) 复合唯一索引兜底并发重复请求
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;uniqueIndex:idx_like_user_post" json:"userId"`
	PostID    uint      `gorm:"index;uniqueIndex:idx_like_user_post" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment 评论模型
type Comment struct {
	baseModel.BaseModel
	PostID   uint            `gorm:"index;not null" json:"postId"`
	UserID   uint            `gorm:"index;not null" json:"userId"`
	User     *userModel.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content  string          `gorm:"type:text" json:"content"`
	ImageURL string          `json:"imageUrl"`
}

// SavedPost 收藏，与 Like 相同的唯一索引模式
type SavedPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;uniqueIndex:idx_save_user_post" json:"userId"`
	PostID    uint      `gorm:"index;uniqueIndex:idx_save_user_post" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}
