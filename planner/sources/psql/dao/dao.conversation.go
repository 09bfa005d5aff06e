package dao

import (
	"context"

	"planner/planner/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationDAO struct {
	DB *gorm.DB
}

func NewConversationDAO(db *gorm.DB) *ConversationDAO {
	return &ConversationDAO{DB: db}
}

func (dao *ConversationDAO) NewSessionKey() string {
	return uuid.New().String()
}

// GetOrCreateConversation returns the live conversation for a session key,
// creating it on first contact. At most one conversation exists per key.
func (dao *ConversationDAO) GetOrCreateConversation(ctx context.Context, sessionKey string) (*models.Conversation, error) {
	var conv models.Conversation
	err := dao.DB.WithContext(ctx).
		Where("session_key = ?", sessionKey).
		First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	conv = models.Conversation{SessionKey: sessionKey}
	if err := dao.DB.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetConversation returns the conversation for a session key, or nil when
// none exists yet.
func (dao *ConversationDAO) GetConversation(ctx context.Context, sessionKey string) (*models.Conversation, error) {
	var conv models.Conversation
	err := dao.DB.WithContext(ctx).
		Where("session_key = ?", sessionKey).
		First(&conv).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (dao *ConversationDAO) SaveMessage(ctx context.Context, conversationID uuid.UUID, role, content string) (*models.Message, error) {
	msg := models.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}
	if err := dao.DB.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (dao *ConversationDAO) GetHistory(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	var history []models.Message
	err := dao.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

// ClearMessages deletes the message log of a conversation. Roadmaps created
// from it are left in place.
func (dao *ConversationDAO) ClearMessages(ctx context.Context, conversationID uuid.UUID) error {
	return dao.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Delete(&models.Message{}).Error
}
