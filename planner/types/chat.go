package types

import "planner/planner/services/search"

type StudySettings struct {
	StudyField   string `json:"study_field,omitempty"`
	CurrentLevel string `json:"current_level,omitempty"`
	Duration     string `json:"duration,omitempty"`
}

type ChatRequest struct {
	SessionKey string         `json:"session_key,omitempty"`
	Content    string         `json:"content"`
	Settings   *StudySettings `json:"settings,omitempty"`
}

type ChatResponse struct {
	SessionKey     string          `json:"session_key"`
	Reply          string          `json:"reply"`
	DisplayReply   string          `json:"display_reply"`
	RoadmapCreated bool            `json:"roadmap_created"`
	RoadmapID      string          `json:"roadmap_id,omitempty"`
	Citations      []search.Result `json:"citations,omitempty"`
}

// StreamEvent is one frame of a streaming chat reply. Delta frames carry
// text; the final frame has Done set and the roadmap outcome.
type StreamEvent struct {
	Delta          string `json:"delta,omitempty"`
	Done           bool   `json:"done,omitempty"`
	RoadmapCreated bool   `json:"roadmap_created,omitempty"`
	RoadmapID      string `json:"roadmap_id,omitempty"`
	Error          string `json:"error,omitempty"`
}

type ToggleRequest struct {
	Completed bool `json:"completed"`
}

type ResetRequest struct {
	SessionKey string `json:"session_key"`
}
