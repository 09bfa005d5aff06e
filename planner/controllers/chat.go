package controllers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"planner/planner/diagram"
	"planner/planner/intent"
	"planner/planner/prompts"
	"planner/planner/services/llm"
	"planner/planner/services/search"
	"planner/planner/sources/psql/dao"
	"planner/planner/sources/psql/models"
	"planner/planner/types"
	"planner/planner/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	generateTimeout = 90 * time.Second
	apologyReply    = "Sorry, I couldn't generate a response right now. Please try again in a moment."
)

// ChatController orchestrates one conversation turn: classify the message,
// augment it with search results when asked, call the generative provider,
// persist both sides of the exchange, and extract a roadmap from plan
// responses.
type ChatController struct {
	convs     *dao.ConversationDAO
	roadmaps  *dao.RoadmapDAO
	generator llm.Generator
	synth     *search.Synthesizer
	prompts   *prompts.PromptConfig
	model     string
}

func NewChatController(convs *dao.ConversationDAO, roadmaps *dao.RoadmapDAO, generator llm.Generator, synth *search.Synthesizer, promptCfg *prompts.PromptConfig, model string) *ChatController {
	return &ChatController{
		convs:     convs,
		roadmaps:  roadmaps,
		generator: generator,
		synth:     synth,
		prompts:   promptCfg,
		model:     model,
	}
}

func (c *ChatController) Chat(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error) {
	defer logging.LogDuration(ctx, "chat_controller_chat")()

	sessionKey := req.SessionKey
	if sessionKey == "" {
		sessionKey = c.convs.NewSessionKey()
	}
	conv, err := c.convs.GetOrCreateConversation(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	cls := intent.Classify(req.Content)
	outbound := req.Content
	var citations []search.Result
	if cls.Kind == intent.WebSearch {
		citations = c.synth.Search(ctx, cls.Payload)
		outbound = req.Content + "\n\n" + search.BuildPrompt(cls.Payload, citations)
	}
	if block := c.settingsBlock(req.Settings); block != "" {
		outbound = block + outbound
	}

	if _, err := c.convs.SaveMessage(ctx, conv.ID, "user", outbound); err != nil {
		return nil, err
	}
	history, err := c.convs.GetHistory(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()
	reply, err := c.generator.Run(genCtx, llm.ChatRequest{
		Model:    c.model,
		System:   c.prompts.SystemPrompt,
		Messages: toLLMMessages(history),
	})
	if err != nil {
		logging.ErrorLogger.Error("generation failed",
			zap.String("session_key", sessionKey),
			zap.Error(err),
		)
		return &types.ChatResponse{
			SessionKey:   sessionKey,
			Reply:        apologyReply,
			DisplayReply: apologyReply,
			Citations:    citations,
		}, nil
	}

	if _, err := c.convs.SaveMessage(ctx, conv.ID, "assistant", reply); err != nil {
		return nil, err
	}

	resp := &types.ChatResponse{
		SessionKey:   sessionKey,
		Reply:        reply,
		DisplayReply: diagram.StripDiagram(reply),
		Citations:    citations,
	}
	if cls.Kind != intent.WebSearch {
		roadmapID, err := c.extractRoadmap(ctx, conv.ID, req.Content, reply)
		if err != nil {
			return nil, err
		}
		if roadmapID != "" {
			resp.RoadmapCreated = true
			resp.RoadmapID = roadmapID
		}
	}
	return resp, nil
}

// ChatStream is the streaming variant of Chat. Deltas arrive on the returned
// channel; the final event carries the roadmap outcome. The assistant message
// is persisted once the stream has been fully assembled.
func (c *ChatController) ChatStream(ctx context.Context, req types.ChatRequest) <-chan types.StreamEvent {
	events := make(chan types.StreamEvent, 8)

	fail := func(err error) {
		logging.ErrorLogger.Error("chat stream failed", zap.Error(err))
		events <- types.StreamEvent{Error: apologyReply, Done: true}
		close(events)
	}

	sessionKey := req.SessionKey
	if sessionKey == "" {
		sessionKey = c.convs.NewSessionKey()
	}
	conv, err := c.convs.GetOrCreateConversation(ctx, sessionKey)
	if err != nil {
		fail(err)
		return events
	}

	cls := intent.Classify(req.Content)
	outbound := req.Content
	if cls.Kind == intent.WebSearch {
		results := c.synth.Search(ctx, cls.Payload)
		outbound = req.Content + "\n\n" + search.BuildPrompt(cls.Payload, results)
	}
	if block := c.settingsBlock(req.Settings); block != "" {
		outbound = block + outbound
	}

	if _, err := c.convs.SaveMessage(ctx, conv.ID, "user", outbound); err != nil {
		fail(err)
		return events
	}
	history, err := c.convs.GetHistory(ctx, conv.ID)
	if err != nil {
		fail(err)
		return events
	}

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	stream, err := c.generator.RunStream(genCtx, llm.ChatRequest{
		Model:    c.model,
		System:   c.prompts.SystemPrompt,
		Messages: toLLMMessages(history),
	})
	if err != nil {
		cancel()
		fail(err)
		return events
	}

	go func() {
		defer cancel()
		defer close(events)

		// Every send must stay abandonable: when the consumer stops reading
		// (client disconnect cancels ctx) the goroutine has to exit, not
		// block on a full channel.
		send := func(e types.StreamEvent) bool {
			if ctx.Err() != nil {
				return false
			}
			select {
			case events <- e:
				return true
			case <-ctx.Done():
				return false
			}
		}

		var full strings.Builder
		for delta := range stream {
			full.WriteString(delta)
			if !send(types.StreamEvent{Delta: delta}) {
				return
			}
		}
		reply := full.String()

		saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer saveCancel()
		if _, err := c.convs.SaveMessage(saveCtx, conv.ID, "assistant", reply); err != nil {
			send(types.StreamEvent{Error: err.Error(), Done: true})
			return
		}
		final := types.StreamEvent{Done: true}
		if cls.Kind != intent.WebSearch {
			roadmapID, err := c.extractRoadmap(saveCtx, conv.ID, req.Content, reply)
			if err != nil {
				send(types.StreamEvent{Error: err.Error(), Done: true})
				return
			}
			if roadmapID != "" {
				final.RoadmapCreated = true
				final.RoadmapID = roadmapID
			}
		}
		send(final)
	}()

	return events
}

// GetMessages returns the persisted message log for a session, oldest first.
func (c *ChatController) GetMessages(ctx context.Context, sessionKey string) ([]models.Message, error) {
	conv, err := c.convs.GetConversation(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return []models.Message{}, nil
	}
	return c.convs.GetHistory(ctx, conv.ID)
}

// ResetSession clears the session's message log. Roadmaps created from the
// conversation stay in the store.
func (c *ChatController) ResetSession(ctx context.Context, sessionKey string) error {
	conv, err := c.convs.GetConversation(ctx, sessionKey)
	if err != nil {
		return err
	}
	if conv == nil {
		return nil
	}
	return c.convs.ClearMessages(ctx, conv.ID)
}

// extractRoadmap probes the reply for a diagram and persists a roadmap when
// one is found. An empty extraction is a normal outcome, not a failure.
func (c *ChatController) extractRoadmap(ctx context.Context, conversationID uuid.UUID, userMessage, reply string) (string, error) {
	nodes := diagram.Extract(reply)
	if len(nodes) == 0 {
		return "", nil
	}
	roadmap, err := c.roadmaps.CreateRoadmap(ctx, conversationID, roadmapTitle(userMessage), diagram.Source(reply), nodes)
	if err != nil {
		return "", fmt.Errorf("failed to save roadmap: %w", err)
	}
	logging.AppLogger.Info("roadmap created",
		zap.String("roadmap_id", roadmap.ID.String()),
		zap.Int("items", len(nodes)),
	)
	return roadmap.ID.String(), nil
}

func (c *ChatController) settingsBlock(s *types.StudySettings) string {
	if s == nil {
		return ""
	}
	duration := s.Duration
	if duration == "" {
		duration = c.prompts.DefaultDuration
	}
	level := s.CurrentLevel
	if level == "" {
		level = c.prompts.DefaultLevel
	}
	parts := []string{
		"Study Duration: " + duration,
		"Current Level: " + level,
	}
	if s.StudyField != "" {
		parts = append(parts, "Study Field: "+s.StudyField)
	}
	return "User Settings:\n" + strings.Join(parts, "\n") + "\n\n"
}

func roadmapTitle(userMessage string) string {
	title := strings.TrimSpace(userMessage)
	if runes := []rune(title); len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return title
}

func toLLMMessages(history []models.Message) []llm.Message {
	msgs := make([]llm.Message, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}
	return msgs
}
