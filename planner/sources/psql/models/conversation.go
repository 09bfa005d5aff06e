package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Conversation struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SessionKey string    `json:"session_key" gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Message struct {
	ID             uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID    `json:"conversation_id" gorm:"type:uuid;not null;index"`
	Conversation   Conversation `json:"-" gorm:"foreignKey:ConversationID;references:ID;constraint:OnDelete:CASCADE"`
	Role           string       `json:"role" gorm:"type:varchar(50);not null"`
	Content        string       `json:"content" gorm:"type:text;not null"`
	CreatedAt      time.Time    `json:"created_at" gorm:"autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
