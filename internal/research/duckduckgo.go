package research

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"
	searchTimeout      = 30 * time.Second
	maxResponseBytes   = 1 << 20
)

// DuckDuckGo searches through the DuckDuckGo HTML interface, which requires
// no API key. It is the default backend.
type DuckDuckGo struct {
	endpoint string
}

// NewDuckDuckGo returns a search client. endpoint overrides the production
// URL; pass "" outside tests.
func NewDuckDuckGo(endpoint string) *DuckDuckGo {
	if endpoint == "" {
		endpoint = duckDuckGoEndpoint
	}
	return &DuckDuckGo{endpoint: endpoint}
}

// Search returns up to maxResults text snippets for the query.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	searchURL := fmt.Sprintf("%s?q=%s", d.endpoint, url.QueryEscape(query))

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return parseSnippets(string(body), maxResults)
}

// parseSnippets pulls result snippets out of a DuckDuckGo HTML page.
func parseSnippets(html string, maxResults int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var snippets []string
	doc.Find(".result__snippet").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text != "" {
			snippets = append(snippets, text)
		}
		return len(snippets) < maxResults
	})
	return snippets, nil
}
