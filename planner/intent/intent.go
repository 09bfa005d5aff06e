// Package intent classifies inbound user messages.
package intent

import "strings"

type Kind int

const (
	Chat Kind = iota
	WebSearch
	PlanRequest
)

func (k Kind) String() string {
	switch k {
	case WebSearch:
		return "web_search"
	case PlanRequest:
		return "plan_request"
	default:
		return "chat"
	}
}

type Classification struct {
	Kind    Kind
	Payload string
}

// The closed set of search triggers. Classification never infers intent
// beyond these prefixes; plan requests are recognized after the fact, by
// whether the provider response parses into a roadmap.
var searchPrefixes = []string{"search:", "/search"}

// Classify inspects a raw message. Messages starting with a search prefix
// (case-insensitive) are WebSearch with the query as payload; everything
// else is Chat with the message untouched.
func Classify(raw string) Classification {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	for _, prefix := range searchPrefixes {
		if !strings.HasPrefix(lower, prefix) {
			continue
		}
		rest := strings.TrimPrefix(trimmed[len(prefix):], ":")
		query := strings.TrimSpace(rest)
		if query == "" {
			break
		}
		return Classification{Kind: WebSearch, Payload: query}
	}
	return Classification{Kind: Chat, Payload: trimmed}
}
