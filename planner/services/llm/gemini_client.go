package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	httputils "planner/planner/utils/http"
	"planner/planner/utils/logging"

	"go.uber.org/zap"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

type GeminiClient struct {
	apiKey  string
	baseURL string
}

func NewGeminiClient(apiKey string) *GeminiClient {
	if apiKey == "" {
		logging.ErrorLogger.Fatal("Missing GEMINI_API_KEY environment variable")
	}
	return &GeminiClient{apiKey: apiKey, baseURL: geminiBaseURL}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func buildGeminiRequest(req ChatRequest) geminiRequest {
	out := geminiRequest{}
	if req.System != "" {
		out.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	for _, m := range req.Messages {
		role := m.Role
		if role == "assistant" {
			role = "model"
		}
		out.Contents = append(out.Contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: m.Content}},
		})
	}
	return out
}

// Run executes a single completion request (non-streaming).
func (c *GeminiClient) Run(ctx context.Context, req ChatRequest) (string, error) {
	defer logging.LogDuration(ctx, "gemini_service_run")()

	url := fmt.Sprintf("%s/%s:generateContent", c.baseURL, req.Model)
	headers := map[string]string{"x-goog-api-key": c.apiKey}

	var parsed geminiResponse
	if err := httputils.PostJSON(ctx, url, headers, buildGeminiRequest(req), &parsed); err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content in gemini response")
	}
	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

// RunStream executes a streaming completion request over SSE, emitting text
// deltas on the returned channel until the stream ends or ctx is cancelled.
func (c *GeminiClient) RunStream(ctx context.Context, req ChatRequest) (<-chan string, error) {
	defer logging.LogDuration(ctx, "gemini_service_run_stream")()

	url := fmt.Sprintf("%s/%s:streamGenerateContent?alt=sse", c.baseURL, req.Model)
	headers := map[string]string{"x-goog-api-key": c.apiKey}

	body, err := httputils.PostStream(ctx, url, headers, buildGeminiRequest(req))
	if err != nil {
		return nil, fmt.Errorf("gemini stream request failed: %w", err)
	}

	ch := make(chan string)

	go func() {
		defer func() {
			close(ch)
			body.Close()
		}()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == "" || payload == "[DONE]" {
				continue
			}
			var chunk geminiResponse
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				logging.ErrorLogger.Error("gemini stream decode error", zap.Error(err))
				return
			}
			if len(chunk.Candidates) == 0 {
				continue
			}
			for _, p := range chunk.Candidates[0].Content.Parts {
				select {
				case ch <- p.Text:
				case <-ctx.Done():
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			logging.ErrorLogger.Error("gemini stream read error", zap.Error(err))
		}
	}()

	return ch, nil
}
