package repository

import (
	"socialnet/internal/domain/notification/model"
	userModel "socialnet/internal/domain/user/model"

	"gorm.io/gorm"
)

// NotificationRepository 通知仓库
type NotificationRepository interface {
	Create(notification *model.Notification) error
	GetByUserID(userID uint) ([]model.Notification, error)
	GetActor(actorID uint) (*userModel.User, error)
	MarkRead(userID, notificationID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	return r.db.Create(notification).Error
}

// GetByUserID 用户的全部通知，最新在前
func (r *notificationRepository) GetByUserID(userID uint) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.Preload("Actor").Where("user_id = ?", userID).Order("created_at desc").Find(&notifications).Error
	return notifications, err
}

// GetActor 动作发起者，用于生成通知文案
func (r *notificationRepository) GetActor(actorID uint) (*userModel.User, error) {
	var user userModel.User
	if err := r.db.Where("id = ?", actorID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *notificationRepository) MarkRead(userID, notificationID uint) error {
	return r.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true).Error
}
