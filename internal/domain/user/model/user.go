package model

import (
	"time"

	baseModel "socialnet/pkg/model"
)

// User 用户模型
type User struct {
	baseModel.BaseModel
	Username        string     `gorm:"uniqueIndex;size:64" json:"username"`
	Email           string     `gorm:"uniqueIndex;size:255" json:"email"`
	Password        string     `json:"-"` // bcrypt 哈希，不返回给前端
	FullName        string     `json:"fullName"`
	Bio             string     `json:"bio"`
	Location        string     `json:"location"`
	Website         string     `json:"website"`
	ProfileImage    string     `json:"profileImage"`
	BackgroundImage string     `json:"backgroundImage"`
	BirthDate       *time.Time `json:"birthDate,omitempty"`
	Verified        bool       `gorm:"default:false" json:"verified"`
	Enabled         bool       `gorm:"default:true" json:"enabled"`
}

// Follow 关注关系，有向边 (follower -> following)
// 单表 + 复合唯一索引，不在 User 上维护镜像集合
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"index;uniqueIndex:idx_follower_following" json:"followerId"`
	FollowingID uint      `gorm:"index;uniqueIndex:idx_follower_following" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}
