package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roadmap is one generated study plan. Immutable after creation: regenerating
// a plan creates a new roadmap rather than mutating an old one.
type Roadmap struct {
	ID             uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID    `json:"conversation_id" gorm:"type:uuid;not null;index"`
	Conversation   Conversation `json:"-" gorm:"foreignKey:ConversationID;references:ID;constraint:OnDelete:CASCADE"`
	Title          string       `json:"title" gorm:"type:varchar(255);not null"`
	SourceDiagram  string       `json:"source_diagram" gorm:"type:text;not null"`
	CreatedAt      time.Time    `json:"created_at" gorm:"autoCreateTime"`
}

func (Roadmap) TableName() string {
	return "roadmaps"
}

func (r *Roadmap) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RoadmapItem is one trackable step of a roadmap, keyed by the node key from
// the source diagram; (roadmap_id, node_key) is unique so re-extraction stays
// idempotent.
type RoadmapItem struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	RoadmapID   uuid.UUID  `json:"roadmap_id" gorm:"type:uuid;not null;uniqueIndex:idx_roadmap_node"`
	Roadmap     Roadmap    `json:"-" gorm:"foreignKey:RoadmapID;references:ID;constraint:OnDelete:CASCADE"`
	NodeKey     string     `json:"node_key" gorm:"type:varchar(64);not null;uniqueIndex:idx_roadmap_node"`
	Title       string     `json:"title" gorm:"type:varchar(255);not null"`
	Description string     `json:"description" gorm:"type:text;default:''"`
	Completed   bool       `json:"completed" gorm:"not null;default:false"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

func (RoadmapItem) TableName() string {
	return "roadmap_items"
}

func (i *RoadmapItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
