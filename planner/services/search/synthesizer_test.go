package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"planner/planner/utils/logging"
)

type fakeSearcher struct {
	results []Result
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > maxResults {
		return f.results[:maxResults], nil
	}
	return f.results, nil
}

func TestBuildPromptNumbersCitations(t *testing.T) {
	results := []Result{
		{Rank: 1, Title: "Go Tour", URL: "https://go.dev/tour", Snippet: "An interactive introduction."},
		{Rank: 2, Title: "Effective Go", URL: "https://go.dev/doc/effective_go", Snippet: "Tips for writing clear Go."},
	}
	prompt := BuildPrompt("learn go", results)

	for _, want := range []string{
		"[1] Go Tour",
		"URL: https://go.dev/tour",
		"[2] Effective Go",
		"Summary: Tips for writing clear Go.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if !strings.Contains(prompt, "citing them inline") {
		t.Errorf("prompt missing citation instruction:\n%s", prompt)
	}
}

func TestBuildPromptNoResults(t *testing.T) {
	prompt := BuildPrompt("obscure topic", nil)
	if !strings.Contains(prompt, "did not return results") {
		t.Errorf("expected unsourced fallback, got %q", prompt)
	}
	if !strings.Contains(prompt, "unsourced") {
		t.Errorf("expected unsourced flag in prompt, got %q", prompt)
	}
}

func TestSearchDegradesOnProviderFailure(t *testing.T) {
	logging.InitLogger(t.TempDir())
	s := NewSynthesizer(&fakeSearcher{err: errors.New("timeout")}, 3)

	results := s.Search(context.Background(), "anything")
	if results != nil {
		t.Errorf("expected nil results on provider failure, got %+v", results)
	}
}

func TestSearchBoundsResults(t *testing.T) {
	logging.InitLogger(t.TempDir())
	many := make([]Result, 10)
	for i := range many {
		many[i] = Result{Rank: i + 1, Title: "r", URL: "https://example.com", Snippet: "s"}
	}
	s := NewSynthesizer(&fakeSearcher{results: many}, 4)

	results := s.Search(context.Background(), "query")
	if len(results) != 4 {
		t.Errorf("expected 4 results, got %d", len(results))
	}
}

func TestNewSynthesizerDefaultLimit(t *testing.T) {
	s := NewSynthesizer(&fakeSearcher{}, 0)
	if s.maxResults != DefaultMaxResults {
		t.Errorf("expected default limit %d, got %d", DefaultMaxResults, s.maxResults)
	}
}
