package intent

import "testing"

func TestClassifySearchPrefixes(t *testing.T) {
	cases := []struct {
		input   string
		payload string
	}{
		{"search: python jobs", "python jobs"},
		{"/search ml resources", "ml resources"},
		{"Search: data structures", "data structures"},
		{"SEARCH: golang books", "golang books"},
		{"/search: best courses", "best courses"},
		{"  search:   padded query  ", "padded query"},
	}
	for _, tc := range cases {
		got := Classify(tc.input)
		if got.Kind != WebSearch {
			t.Errorf("%q: expected WebSearch, got %v", tc.input, got.Kind)
		}
		if got.Payload != tc.payload {
			t.Errorf("%q: expected payload %q, got %q", tc.input, tc.payload, got.Payload)
		}
	}
}

func TestClassifyChat(t *testing.T) {
	cases := []string{
		"help me study",
		"make me a study plan for rust",
		"I want to search for something", // no prefix, stays chat
		"researching algorithms",
	}
	for _, input := range cases {
		got := Classify(input)
		if got.Kind != Chat {
			t.Errorf("%q: expected Chat, got %v", input, got.Kind)
		}
	}
}

func TestClassifyEmptySearchQueryIsChat(t *testing.T) {
	for _, input := range []string{"search:", "/search", "search:   "} {
		if got := Classify(input); got.Kind != Chat {
			t.Errorf("%q: expected Chat for empty query, got %v", input, got.Kind)
		}
	}
}
