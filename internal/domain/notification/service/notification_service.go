package service

import (
	"fmt"

	"socialnet/internal/domain/notification/model"
	"socialnet/internal/domain/notification/repository"
)

// NotificationResponse 通知视图
type NotificationResponse struct {
	ID                uint   `json:"id"`
	ActorUsername     string `json:"actorUsername"`
	ActorFullName     string `json:"actorFullName"`
	ActorProfileImage string `json:"actorProfileImage"`
	PostID            *uint  `json:"postId,omitempty"`
	Type              string `json:"type"`
	Message           string `json:"message"`
	CreatedAt         string `json:"createdAt"`
	IsRead            bool   `json:"isRead"`
}

// NotificationService 通知服务
type NotificationService interface {
	// Create 写入一条通知；actor == recipient 时不产生任何记录
	Create(actorID, recipientID uint, postID *uint, notifType string) error
	GetUserNotifications(userID uint) ([]NotificationResponse, error)
	MarkRead(userID, notificationID uint) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// Create 自己给自己的动作不通知
func (s *notificationService) Create(actorID, recipientID uint, postID *uint, notifType string) error {
	if actorID == recipientID {
		return nil
	}

	actor, err := s.repo.GetActor(actorID)
	if err != nil {
		return err
	}

	var action string
	switch notifType {
	case model.TypeLike:
		action = "liked"
	case model.TypeComment:
		action = "commented on"
	case model.TypeShare:
		action = "shared"
	default:
		action = "interacted with"
	}

	notification := &model.Notification{
		UserID:  recipientID,
		ActorID: actorID,
		PostID:  postID,
		Type:    notifType,
		Message: fmt.Sprintf("%s %s your post", actor.Username, action),
	}
	return s.repo.Create(notification)
}

// GetUserNotifications 用户通知列表，最新在前
func (s *notificationService) GetUserNotifications(userID uint) ([]NotificationResponse, error) {
	notifications, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	result := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		dto := NotificationResponse{
			ID:        n.ID,
			PostID:    n.PostID,
			Type:      n.Type,
			Message:   n.Message,
			CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			IsRead:    n.IsRead,
		}
		if n.Actor != nil {
			dto.ActorUsername = n.Actor.Username
			dto.ActorFullName = n.Actor.FullName
			dto.ActorProfileImage = n.Actor.ProfileImage
		}
		result = append(result, dto)
	}
	return result, nil
}

func (s *notificationService) MarkRead(userID, notificationID uint) error {
	return s.repo.MarkRead(userID, notificationID)
}
