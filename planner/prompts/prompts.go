// Package prompts loads the agent's prompt configuration from a properties
// file, falling back to built-in defaults when the file is absent.
package prompts

import (
	"strings"

	"planner/planner/utils/logging"

	"github.com/magiconair/properties"
	"go.uber.org/zap"
)

const DefaultPath = "planner/prompts/planner.properties"

type PromptConfig struct {
	AgentName       string
	SystemPrompt    string
	DefaultDuration string
	DefaultLevel    string
}

const defaultSystemPrompt = `You are an AI Study Planner Agent. Your role is to help users create effective study plans, learning roadmaps, and structured educational guidance.

When creating a study plan or roadmap, you MUST include a valid Mermaid diagram at the very beginning of your response, fenced as a mermaid code block. Use flowchart TD, unique readable node IDs (A, B, C, A1, ...), square-bracket labels like A[Topic Name], and --> for all connections. Group phases with %% comments and color them with classDef using soft pastel fills: foundation #b3d9ff, core #c2f0c2, practice #fff2b3, project #e0ccff, review #f8b4b4. Apply classes with A[Topic]:::foundation. Keep labels short; no icons, emojis, or HTML.

Follow the diagram with a clear, structured explanation. Adapt the roadmap depth to the user's level. When the user supplies web search results, answer using only the numbered sources and cite them inline as [1], [2], etc. Be encouraging, concise, and educational.`

func LoadPrompts(path string) *PromptConfig {
	if path == "" {
		path = DefaultPath
	}
	cfg := &PromptConfig{
		AgentName:       "Study Planner",
		SystemPrompt:    defaultSystemPrompt,
		DefaultDuration: "3 weeks",
		DefaultLevel:    "Beginner",
	}

	props, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		logging.AppLogger.Warn("Prompt config not loaded, using defaults", zap.Error(err))
		return cfg
	}

	cfg.AgentName = props.GetString("agent_name", cfg.AgentName)
	cfg.DefaultDuration = props.GetString("default_duration", cfg.DefaultDuration)
	cfg.DefaultLevel = props.GetString("default_level", cfg.DefaultLevel)
	if sp := strings.TrimSpace(props.GetString("system_prompt", "")); sp != "" {
		cfg.SystemPrompt = sp
	}
	return cfg
}
