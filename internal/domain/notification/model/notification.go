package model

import (
	"time"

	userModel "socialnet/internal/domain/user/model"
)

// 通知类型
const (
	TypeLike    = "LIKE"
	TypeComment = "COMMENT"
	TypeShare   = "SHARE"
)

// Notification 通知模型，拉模式：写入后等用户来取，没有推送扇出
type Notification struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"index;not null" json:"userId"` // 接收者（帖子作者）
	ActorID   uint            `gorm:"not null" json:"actorId"`      // 动作发起者
	Actor     *userModel.User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	PostID    *uint           `json:"postId,omitempty"`
	Type      string          `gorm:"size:16;not null" json:"type"`
	Message   string          `gorm:"type:text" json:"message"`
	IsRead    bool            `gorm:"default:false" json:"isRead"`
	CreatedAt time.Time       `json:"createdAt"`
}
