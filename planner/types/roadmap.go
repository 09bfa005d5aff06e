package types

import (
	"planner/planner/progress"
	"planner/planner/sources/psql/models"
)

type ProgressResponse struct {
	RoadmapID string               `json:"roadmap_id"`
	Stats     progress.Stats       `json:"stats"`
	Items     []models.RoadmapItem `json:"items"`
}
