// Package search provides the web-search capability and turns raw hits into
// a citable prompt fragment.
package search

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	httputils "planner/planner/utils/http"
	"planner/planner/utils/logging"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Result is one web search hit. Results are ephemeral: built per request,
// folded into the prompt, never persisted.
type Result struct {
	Rank    int    `json:"rank"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher is the web-search capability the synthesizer depends on.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

type DuckDuckGo struct {
	searchURL string
}

func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{searchURL: "https://duckduckgo.com/html/"}
}

var httpSchemeRe = regexp.MustCompile(`^https?://`)

// Search scrapes the DuckDuckGo HTML endpoint for up to maxResults hits.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	defer logging.LogDuration(ctx, "duckduckgo_search")()

	params := url.Values{}
	params.Add("q", query)
	headers := map[string]string{"User-Agent": "Mozilla/5.0"}

	resp, err := httputils.Get(ctx, d.searchURL+"?"+params.Encode(), headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	root, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}
	doc := goquery.NewDocumentFromNode(root)

	var results []Result
	doc.Find(".result__body").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(results) >= maxResults {
			return false
		}
		titleSel := s.Find(".result__title a")
		snippetSel := s.Find(".result__snippet")
		if titleSel.Length() == 0 || snippetSel.Length() == 0 {
			return true
		}

		href, exists := titleSel.Attr("href")
		if !exists {
			return true
		}

		// DuckDuckGo wraps targets in a redirect; the real URL sits in uddg.
		parsed, err := url.Parse(href)
		if err != nil {
			return true
		}
		actualURL := parsed.Query().Get("uddg")
		if actualURL == "" || !httpSchemeRe.MatchString(actualURL) {
			return true
		}

		results = append(results, Result{
			Rank:    len(results) + 1,
			Title:   strings.TrimSpace(titleSel.Text()),
			URL:     actualURL,
			Snippet: strings.Join(strings.Fields(snippetSel.Text()), " "),
		})
		return true
	})

	return results, nil
}
