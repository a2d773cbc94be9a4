package research

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// GoogleSearch searches through the Google Custom Search API. Used when an
// API key and engine ID are configured, since its snippets are cleaner than
// scraped ones.
type GoogleSearch struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogleSearch creates a Custom Search client bound to one engine ID.
func NewGoogleSearch(ctx context.Context, apiKey, cx string) (*GoogleSearch, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &GoogleSearch{svc: svc, cx: cx}, nil
}

// Search returns up to maxResults result snippets for the query.
func (g *GoogleSearch) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	resp, err := g.svc.Cse.List().Cx(g.cx).Q(query).Num(int64(maxResults)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var snippets []string
	for _, item := range resp.Items {
		if text := strings.TrimSpace(item.Snippet); text != "" {
			snippets = append(snippets, text)
		}
		if len(snippets) >= maxResults {
			break
		}
	}
	return snippets, nil
}
