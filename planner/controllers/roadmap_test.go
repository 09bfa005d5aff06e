package controllers

import (
	"context"
	"testing"

	"planner/planner/sources/psql/dao"
	"planner/planner/types"

	"github.com/google/uuid"
)

func setupRoadmapCtrl(t *testing.T) (*RoadmapController, *ChatController) {
	gen := &fakeGenerator{reply: planReply}
	chatCtrl, db := setupChat(t, gen, &stubSearcher{})
	ctrl := NewRoadmapController(dao.NewConversationDAO(db), dao.NewRoadmapDAO(db))
	return ctrl, chatCtrl
}

func TestListRoadmapsUnknownSession(t *testing.T) {
	ctrl, _ := setupRoadmapCtrl(t)

	roadmaps, err := ctrl.ListRoadmaps(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(roadmaps) != 0 {
		t.Errorf("expected empty list, got %d", len(roadmaps))
	}
}

func TestProgressUnknownRoadmap(t *testing.T) {
	ctrl, _ := setupRoadmapCtrl(t)

	if _, err := ctrl.Progress(context.Background(), uuid.New()); err != dao.ErrRoadmapNotFound {
		t.Errorf("expected ErrRoadmapNotFound, got %v", err)
	}
}

func TestToggleThroughController(t *testing.T) {
	ctrl, chatCtrl := setupRoadmapCtrl(t)
	ctx := context.Background()

	resp, err := chatCtrl.Chat(ctx, types.ChatRequest{SessionKey: "s1", Content: "plan please"})
	if err != nil || !resp.RoadmapCreated {
		t.Fatalf("expected roadmap from chat, got %+v err %v", resp, err)
	}
	roadmapID := uuid.MustParse(resp.RoadmapID)

	stats, err := ctrl.Toggle(ctx, roadmapID, "A", true)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if stats.Total != 3 || stats.Completed != 1 || stats.Percentage != 33 {
		t.Errorf("unexpected stats %+v", stats)
	}

	prog, err := ctrl.Progress(ctx, roadmapID)
	if err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	if prog.Stats != stats {
		t.Errorf("expected progress stats %+v, got %+v", stats, prog.Stats)
	}
	if len(prog.Items) != 3 {
		t.Errorf("expected 3 items, got %d", len(prog.Items))
	}

	if _, err := ctrl.Toggle(ctx, roadmapID, "nope", true); err != dao.ErrItemNotFound {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}
