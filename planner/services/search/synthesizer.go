package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"planner/planner/utils/logging"

	"go.uber.org/zap"
)

const (
	DefaultMaxResults = 6
	searchTimeout     = 10 * time.Second
)

// Synthesizer runs a bounded web search and renders the hits into a
// citation-annotated prompt fragment.
type Synthesizer struct {
	searcher   Searcher
	maxResults int
}

func NewSynthesizer(searcher Searcher, maxResults int) *Synthesizer {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Synthesizer{searcher: searcher, maxResults: maxResults}
}

// Search performs the external call. Search augmentation is best-effort: a
// provider failure or timeout degrades to zero results instead of an error.
func (s *Synthesizer) Search(ctx context.Context, query string) []Result {
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	results, err := s.searcher.Search(ctx, query, s.maxResults)
	if err != nil {
		logging.ErrorLogger.Error("web search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}
	return results
}

// BuildPrompt renders results as a numbered citation block with instructions
// to answer from the listed sources only, citing them inline as [n]. With no
// results it asks for an answer from general knowledge, flagged as unsourced.
func BuildPrompt(query string, results []Result) string {
	if len(results) == 0 {
		return "(Note: Web search did not return results. Please answer from your general knowledge and state that the answer is unsourced.)"
	}

	var sb strings.Builder
	sb.WriteString("--- Web Search Results ---\n")
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("\n[%d] %s\n", i+1, r.Title))
		sb.WriteString(fmt.Sprintf("URL: %s\n", r.URL))
		sb.WriteString(fmt.Sprintf("Summary: %s\n", r.Snippet))
	}
	sb.WriteString("\nPlease provide a helpful response using only these numbered sources, citing them inline with [1], [2], etc.")
	return sb.String()
}
