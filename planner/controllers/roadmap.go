package controllers

import (
	"context"

	"planner/planner/progress"
	"planner/planner/sources/psql/dao"
	"planner/planner/sources/psql/models"
	"planner/planner/types"

	"github.com/google/uuid"
)

// RoadmapController serves roadmap listings, progress reads, and completion
// toggles. Toggles bypass the generative path entirely.
type RoadmapController struct {
	convs      *dao.ConversationDAO
	roadmaps   *dao.RoadmapDAO
	reconciler *progress.Reconciler
}

func NewRoadmapController(convs *dao.ConversationDAO, roadmaps *dao.RoadmapDAO) *RoadmapController {
	return &RoadmapController{
		convs:      convs,
		roadmaps:   roadmaps,
		reconciler: progress.NewReconciler(roadmaps),
	}
}

// ListRoadmaps returns all roadmaps for a session, newest first. An unknown
// session key yields an empty list.
func (c *RoadmapController) ListRoadmaps(ctx context.Context, sessionKey string) ([]models.Roadmap, error) {
	conv, err := c.convs.GetConversation(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return []models.Roadmap{}, nil
	}
	return c.roadmaps.ListRoadmaps(ctx, conv.ID)
}

func (c *RoadmapController) Progress(ctx context.Context, roadmapID uuid.UUID) (*types.ProgressResponse, error) {
	if _, err := c.roadmaps.GetRoadmap(ctx, roadmapID); err != nil {
		return nil, err
	}
	stats, err := c.reconciler.StatsFor(ctx, roadmapID)
	if err != nil {
		return nil, err
	}
	items, err := c.roadmaps.GetItems(ctx, roadmapID)
	if err != nil {
		return nil, err
	}
	return &types.ProgressResponse{
		RoadmapID: roadmapID.String(),
		Stats:     stats,
		Items:     items,
	}, nil
}

func (c *RoadmapController) Toggle(ctx context.Context, roadmapID uuid.UUID, nodeKey string, completed bool) (progress.Stats, error) {
	return c.reconciler.Apply(ctx, roadmapID, nodeKey, completed)
}
