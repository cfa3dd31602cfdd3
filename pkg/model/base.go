package model

import (
	"time"
)

// BaseModel 基础模型，自增主键 + 时间戳
// 不使用软删除：删除帖子/评论时需要真实移除行，
// 点赞数、评论数都是按行实时 COUNT 出来的
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
