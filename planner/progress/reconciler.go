// Package progress reconciles completion toggles against the persisted
// roadmap state and derives aggregate statistics.
package progress

import (
	"context"
	"math"

	"planner/planner/sources/psql/dao"

	"github.com/google/uuid"
)

// Stats is the aggregate completion state of one roadmap. Percentage is 0
// for an empty roadmap; callers must not read that as fully done.
type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}

type Reconciler struct {
	roadmaps *dao.RoadmapDAO
}

func NewReconciler(roadmaps *dao.RoadmapDAO) *Reconciler {
	return &Reconciler{roadmaps: roadmaps}
}

// Apply moves (roadmapID, nodeKey) to the target completion state and
// returns fresh stats. Unknown items fail with dao.ErrItemNotFound; nodes
// are never created here, only at roadmap extraction time.
func (r *Reconciler) Apply(ctx context.Context, roadmapID uuid.UUID, nodeKey string, completed bool) (Stats, error) {
	if _, err := r.roadmaps.SetItemCompletion(ctx, roadmapID, nodeKey, completed); err != nil {
		return Stats{}, err
	}
	return r.StatsFor(ctx, roadmapID)
}

// StatsFor computes stats from the store; nothing is cached.
func (r *Reconciler) StatsFor(ctx context.Context, roadmapID uuid.UUID) (Stats, error) {
	total, completed, err := r.roadmaps.CountItems(ctx, roadmapID)
	if err != nil {
		return Stats{}, err
	}
	return computeStats(total, completed), nil
}

func computeStats(total, completed int64) Stats {
	s := Stats{Total: int(total), Completed: int(completed)}
	if total > 0 {
		s.Percentage = int(math.Round(100 * float64(completed) / float64(total)))
	}
	return s
}
