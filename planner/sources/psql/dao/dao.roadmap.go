package dao

import (
	"context"
	"errors"
	"time"

	"planner/planner/diagram"
	"planner/planner/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRoadmapNotFound = errors.New("roadmap not found")
	ErrItemNotFound    = errors.New("roadmap item not found")
)

type RoadmapDAO struct {
	DB *gorm.DB
}

func NewRoadmapDAO(db *gorm.DB) *RoadmapDAO {
	return &RoadmapDAO{DB: db}
}

// CreateRoadmap persists a roadmap together with its items in one
// transaction. A failed item write rolls back the whole roadmap.
func (dao *RoadmapDAO) CreateRoadmap(ctx context.Context, conversationID uuid.UUID, title, sourceDiagram string, nodes []diagram.Node) (*models.Roadmap, error) {
	roadmap := models.Roadmap{
		ConversationID: conversationID,
		Title:          title,
		SourceDiagram:  sourceDiagram,
	}
	err := dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&roadmap).Error; err != nil {
			return err
		}
		items := make([]models.RoadmapItem, 0, len(nodes))
		for _, n := range nodes {
			items = append(items, models.RoadmapItem{
				RoadmapID:   roadmap.ID,
				NodeKey:     n.Key,
				Title:       n.Title,
				Description: n.Description,
			})
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return &roadmap, nil
}

func (dao *RoadmapDAO) GetRoadmap(ctx context.Context, roadmapID uuid.UUID) (*models.Roadmap, error) {
	var roadmap models.Roadmap
	err := dao.DB.WithContext(ctx).First(&roadmap, "id = ?", roadmapID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrRoadmapNotFound
	}
	if err != nil {
		return nil, err
	}
	return &roadmap, nil
}

func (dao *RoadmapDAO) ListRoadmaps(ctx context.Context, conversationID uuid.UUID) ([]models.Roadmap, error) {
	var roadmaps []models.Roadmap
	err := dao.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Find(&roadmaps).Error
	if err != nil {
		return nil, err
	}
	return roadmaps, nil
}

func (dao *RoadmapDAO) GetItems(ctx context.Context, roadmapID uuid.UUID) ([]models.RoadmapItem, error) {
	var items []models.RoadmapItem
	err := dao.DB.WithContext(ctx).
		Where("roadmap_id = ?", roadmapID).
		Order("node_key ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SetItemCompletion moves an item to the target completion state. The call is
// idempotent: re-applying the current state writes nothing. completed_at is
// stamped on the incomplete-to-complete transition and deliberately kept, not
// cleared, on the way back; the next completion overwrites it.
func (dao *RoadmapDAO) SetItemCompletion(ctx context.Context, roadmapID uuid.UUID, nodeKey string, completed bool) (*models.RoadmapItem, error) {
	var item models.RoadmapItem
	err := dao.DB.WithContext(ctx).
		Where("roadmap_id = ? AND node_key = ?", roadmapID, nodeKey).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	if item.Completed == completed {
		return &item, nil
	}

	updates := map[string]interface{}{"completed": completed}
	if completed {
		now := time.Now().UTC().Truncate(time.Millisecond)
		updates["completed_at"] = now
		item.CompletedAt = &now
	}
	item.Completed = completed

	err = dao.DB.WithContext(ctx).
		Model(&models.RoadmapItem{}).
		Where("roadmap_id = ? AND node_key = ?", roadmapID, nodeKey).
		Updates(updates).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CountItems returns total and completed item counts for a roadmap.
func (dao *RoadmapDAO) CountItems(ctx context.Context, roadmapID uuid.UUID) (total, completed int64, err error) {
	base := dao.DB.WithContext(ctx).Model(&models.RoadmapItem{}).Where("roadmap_id = ?", roadmapID)
	if err = base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = base.Session(&gorm.Session{}).Where("completed = ?", true).Count(&completed).Error; err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}
