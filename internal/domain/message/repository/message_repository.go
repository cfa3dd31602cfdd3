package repository

import (
	"socialnet/internal/domain/message/model"

	"gorm.io/gorm"
)

// MessageRepository 私信数据访问
type MessageRepository interface {
	Create(message *model.Message) error
	GetByID(id uint) (*model.Message, error)
	// GetConversation 双向取两人之间的全部消息，按时间正序
	GetConversation(userID, otherID uint) ([]model.Message, error)
	// GetLatestMessagesForConversations 每个会话对端取 id 最大的一条
	GetLatestMessagesForConversations(userID uint) ([]model.Message, error)
	CountUnread(userID, otherID uint) (int64, error)
	MarkConversationRead(userID, otherID uint) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *model.Message) error {
	return r.db.Create(message).Error
}

func (r *messageRepository) GetByID(id uint) (*model.Message, error) {
	var message model.Message
	err := r.db.Preload("Sender").Preload("Receiver").First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) GetConversation(userID, otherID uint) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.
		Preload("Sender").
		Preload("Receiver").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// GetLatestMessagesForConversations 会话列表：
// 按对端分组取最大 id 的消息，再按时间倒序排
func (r *messageRepository) GetLatestMessagesForConversations(userID uint) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.
		Preload("Sender").
		Preload("Receiver").
		Where(`id IN (
			SELECT MAX(id) FROM messages
			WHERE sender_id = ? OR receiver_id = ?
			GROUP BY CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END
		)`, userID, userID, userID).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) CountUnread(userID, otherID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", userID, otherID, false).
		Count(&count).Error
	return count, err
}

// MarkConversationRead 把对端发来的未读消息全部标记已读
func (r *messageRepository) MarkConversationRead(userID, otherID uint) error {
	return r.db.Model(&model.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", userID, otherID, false).
		Update("is_read", true).Error
}
