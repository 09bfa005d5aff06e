package dao

import (
	"context"
	"testing"
	"time"

	"planner/planner/diagram"
	"planner/planner/sources/psql/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Conversation{},
		&models.Message{},
		&models.Roadmap{},
		&models.RoadmapItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createTestRoadmap(t *testing.T, db *gorm.DB, diagramText string) (*RoadmapDAO, *models.Roadmap) {
	ctx := context.Background()
	convDAO := NewConversationDAO(db)
	conv, err := convDAO.GetOrCreateConversation(ctx, "test-session")
	if err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}
	roadmapDAO := NewRoadmapDAO(db)
	nodes := diagram.Extract(diagramText)
	roadmap, err := roadmapDAO.CreateRoadmap(ctx, conv.ID, "Test Plan", diagramText, nodes)
	if err != nil {
		t.Fatalf("failed to create roadmap: %v", err)
	}
	return roadmapDAO, roadmap
}

func TestCreateRoadmapRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	diagramText := "A[Learn Basics] --> B[Practice]\nB --> C[Build Project: final capstone]"
	roadmapDAO, roadmap := createTestRoadmap(t, db, diagramText)

	items, err := roadmapDAO.GetItems(context.Background(), roadmap.ID)
	if err != nil {
		t.Fatalf("failed to read items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	parsed := diagram.Extract(diagramText)
	byKey := map[string]diagram.Node{}
	for _, n := range parsed {
		byKey[n.Key] = n
	}
	for _, item := range items {
		want, ok := byKey[item.NodeKey]
		if !ok {
			t.Errorf("unexpected item key %q", item.NodeKey)
			continue
		}
		if item.Title != want.Title || item.Description != want.Description {
			t.Errorf("item %q: expected (%q, %q), got (%q, %q)",
				item.NodeKey, want.Title, want.Description, item.Title, item.Description)
		}
		if item.Completed {
			t.Errorf("item %q: expected fresh item incomplete", item.NodeKey)
		}
		if item.CompletedAt != nil {
			t.Errorf("item %q: expected nil completed_at on fresh item", item.NodeKey)
		}
	}
}

func TestSetItemCompletionIdempotent(t *testing.T) {
	db := setupTestDB(t)
	roadmapDAO, roadmap := createTestRoadmap(t, db, "A[Start] --> B[End]")
	ctx := context.Background()

	first, err := roadmapDAO.SetItemCompletion(ctx, roadmap.ID, "A", true)
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !first.Completed || first.CompletedAt == nil {
		t.Fatalf("expected completed item with timestamp, got %+v", first)
	}

	time.Sleep(10 * time.Millisecond)
	second, err := roadmapDAO.SetItemCompletion(ctx, roadmap.ID, "A", true)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Errorf("expected completed_at untouched on repeat toggle: %v vs %v",
			second.CompletedAt, first.CompletedAt)
	}
}

func TestSetItemCompletionKeepsLatestCompletionTime(t *testing.T) {
	db := setupTestDB(t)
	roadmapDAO, roadmap := createTestRoadmap(t, db, "A[Start] --> B[End]")
	ctx := context.Background()

	first, err := roadmapDAO.SetItemCompletion(ctx, roadmap.ID, "A", true)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	undone, err := roadmapDAO.SetItemCompletion(ctx, roadmap.ID, "A", false)
	if err != nil {
		t.Fatalf("uncomplete failed: %v", err)
	}
	if undone.Completed {
		t.Errorf("expected item incomplete after toggle back")
	}
	if undone.CompletedAt == nil || !undone.CompletedAt.Equal(*first.CompletedAt) {
		t.Errorf("expected completed_at preserved through incomplete transition")
	}

	time.Sleep(10 * time.Millisecond)
	again, err := roadmapDAO.SetItemCompletion(ctx, roadmap.ID, "A", true)
	if err != nil {
		t.Fatalf("re-complete failed: %v", err)
	}
	if !again.CompletedAt.After(*first.CompletedAt) {
		t.Errorf("expected completed_at refreshed on re-completion: %v vs %v",
			again.CompletedAt, first.CompletedAt)
	}
}

func TestSetItemCompletionUnknownItem(t *testing.T) {
	db := setupTestDB(t)
	roadmapDAO, roadmap := createTestRoadmap(t, db, "A[Start] --> B[End]")

	_, err := roadmapDAO.SetItemCompletion(context.Background(), roadmap.ID, "ZZ", true)
	if err != ErrItemNotFound {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}

	var count int64
	db.Model(&models.RoadmapItem{}).Where("roadmap_id = ?", roadmap.ID).Count(&count)
	if count != 2 {
		t.Errorf("expected no item silently created, got %d items", count)
	}
}

func TestCountItems(t *testing.T) {
	db := setupTestDB(t)
	roadmapDAO, roadmap := createTestRoadmap(t, db, "A[One] --> B[Two]\nB --> C[Three]")
	ctx := context.Background()

	if _, err := roadmapDAO.SetItemCompletion(ctx, roadmap.ID, "A", true); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	total, completed, err := roadmapDAO.CountItems(ctx, roadmap.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != 3 || completed != 1 {
		t.Errorf("expected 3 total / 1 completed, got %d / %d", total, completed)
	}
}

func TestGetRoadmapNotFound(t *testing.T) {
	db := setupTestDB(t)
	roadmapDAO := NewRoadmapDAO(db)

	conv := models.Conversation{SessionKey: "other"}
	if err := db.Create(&conv).Error; err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}
	if _, err := roadmapDAO.GetRoadmap(context.Background(), conv.ID); err != ErrRoadmapNotFound {
		t.Errorf("expected ErrRoadmapNotFound, got %v", err)
	}
}
