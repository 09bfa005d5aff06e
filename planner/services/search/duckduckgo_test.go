package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"planner/planner/utils/logging"
)

func resultDiv(href, title, snippet string) string {
	return `<div class="result__body">` +
		`<h2 class="result__title"><a href="` + href + `">` + title + `</a></h2>` +
		`<div class="result__snippet">` + snippet + `</div>` +
		`</div>`
}

func TestSearchSkipsMalformedAndUnwrappedHrefs(t *testing.T) {
	logging.InitLogger(t.TempDir())
	page := "<html><body>" +
		resultDiv("http://[::1", "Broken", "unparseable href") +
		resultDiv("https://example.com/direct", "Direct", "no uddg wrapper") +
		resultDiv("/l/?uddg="+url.QueryEscape("https://go.dev/tour"), "Go Tour", "learn go") +
		"</body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	d := &DuckDuckGo{searchURL: srv.URL}
	results, err := d.Search(context.Background(), "go tour", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d: %+v", len(results), results)
	}
	if results[0].URL != "https://go.dev/tour" || results[0].Title != "Go Tour" {
		t.Errorf("unexpected result: %+v", results[0])
	}
	if results[0].Rank != 1 {
		t.Errorf("expected rank 1, got %d", results[0].Rank)
	}
}
