// Package llm holds the text-generation capability and its provider clients.
package llm

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model    string    `json:"model"`
	System   string    `json:"system,omitempty"`
	Messages []Message `json:"messages"`
}

// Generator is the text-generation capability the orchestrator depends on.
// Implementations must honor ctx cancellation and return recoverable errors.
type Generator interface {
	Run(ctx context.Context, req ChatRequest) (string, error)
	RunStream(ctx context.Context, req ChatRequest) (<-chan string, error)
}
