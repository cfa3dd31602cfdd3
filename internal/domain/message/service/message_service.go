package service

import (
	"errors"
	"time"

	"socialnet/internal/domain/message/model"
	"socialnet/internal/domain/message/repository"
	userModel "socialnet/internal/domain/user/model"
	userRepo "socialnet/internal/domain/user/repository"
	"socialnet/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrReceiverNotFound = errors.New("receiver not found")

// MessageResponse 单条私信视图
type MessageResponse struct {
	ID             uint      `json:"id"`
	SenderUsername string    `json:"senderUsername"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
	Mine           bool      `json:"mine"`
}

// ConversationResponse 会话摘要，按最新消息倒序
type ConversationResponse struct {
	Username      string    `json:"username"`
	FullName      string    `json:"fullName"`
	ProfileImage  string    `json:"profileImage"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int64     `json:"unreadCount"`
}

// MessageService 私信服务
type MessageService interface {
	SendMessage(senderID uint, receiverUsername, content string) (*MessageResponse, error)
	// GetConversation 拉取会话并把对端发来的消息标记已读
	GetConversation(userID uint, otherUsername string) ([]MessageResponse, error)
	GetConversations(userID uint) ([]ConversationResponse, error)
}

type messageService struct {
	repo  repository.MessageRepository
	users userRepo.UserRepository
}

func NewMessageService(repo repository.MessageRepository, users userRepo.UserRepository) MessageService {
	return &messageService{repo: repo, users: users}
}

func (s *messageService) SendMessage(senderID uint, receiverUsername, content string) (*MessageResponse, error) {
	receiver, err := s.findUser(receiverUsername)
	if err != nil {
		return nil, err
	}

	message := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		Content:    content,
	}
	if err := s.repo.Create(message); err != nil {
		return nil, err
	}

	created, err := s.repo.GetByID(message.ID)
	if err != nil {
		return nil, err
	}
	return s.convertToDTO(created, senderID), nil
}

func (s *messageService) GetConversation(userID uint, otherUsername string) ([]MessageResponse, error) {
	other, err := s.findUser(otherUsername)
	if err != nil {
		return nil, err
	}

	messages, err := s.repo.GetConversation(userID, other.ID)
	if err != nil {
		return nil, err
	}

	// 查看即已读，失败不影响读取
	if err := s.repo.MarkConversationRead(userID, other.ID); err != nil {
		logger.Log.Warn("mark conversation read failed",
			zap.Uint("user", userID),
			zap.Uint("other", other.ID),
			zap.Error(err),
		)
	}

	result := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		result = append(result, *s.convertToDTO(&messages[i], userID))
	}
	return result, nil
}

func (s *messageService) GetConversations(userID uint) ([]ConversationResponse, error) {
	latest, err := s.repo.GetLatestMessagesForConversations(userID)
	if err != nil {
		return nil, err
	}

	result := make([]ConversationResponse, 0, len(latest))
	for i := range latest {
		message := &latest[i]
		correspondent := message.Sender
		correspondentID := message.SenderID
		if message.SenderID == userID {
			correspondent = message.Receiver
			correspondentID = message.ReceiverID
		}
		if correspondent == nil {
			continue
		}

		unread, err := s.repo.CountUnread(userID, correspondentID)
		if err != nil {
			unread = 0
		}

		result = append(result, ConversationResponse{
			Username:      correspondent.Username,
			FullName:      correspondent.FullName,
			ProfileImage:  correspondent.ProfileImage,
			LastMessage:   message.Content,
			LastMessageAt: message.CreatedAt,
			UnreadCount:   unread,
		})
	}
	return result, nil
}

func (s *messageService) findUser(username string) (*userModel.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *messageService) convertToDTO(message *model.Message, viewerID uint) *MessageResponse {
	senderUsername := ""
	if message.Sender != nil {
		senderUsername = message.Sender.Username
	}
	return &MessageResponse{
		ID:             message.ID,
		SenderUsername: senderUsername,
		Content:        message.Content,
		IsRead:         message.IsRead,
		CreatedAt:      message.CreatedAt,
		Mine:           message.SenderID == viewerID,
	}
}
