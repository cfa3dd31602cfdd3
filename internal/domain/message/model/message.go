package model

import (
	"time"

	userModel "socialnet/internal/domain/user/model"
)

// Message 私信，单向存储，会话由双方 ID 动态聚合
type Message struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	SenderID   uint             `gorm:"index;not null" json:"senderId"`
	Sender     *userModel.User  `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	ReceiverID uint             `gorm:"index;not null" json:"receiverId"`
	Receiver   *userModel.User  `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	Content    string           `gorm:"type:text;not null" json:"content"`
	IsRead     bool             `gorm:"default:false" json:"isRead"`
	CreatedAt  time.Time        `json:"createdAt"`
}
