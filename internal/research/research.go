// Package research gathers public web context about prospects before opener
// generation. Queries scale with the requested depth and every query runs
// against the search engine concurrently.
package research

import (
	"context"
	"log"
	"sync"
)

// maxSnippetsPerQuery caps how many snippets one query contributes.
const maxSnippetsPerQuery = 3

// Result holds the snippets one query returned.
type Result struct {
	Query    string
	Snippets []string
}

// Searcher returns text snippets for a search query.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]string, error)
}

// Researcher fans prospect queries out to a search engine. A failed query
// drops its result rather than failing the whole prospect.
type Researcher struct {
	searcher Searcher
}

func New(searcher Searcher) *Researcher {
	return &Researcher{searcher: searcher}
}

// Research runs every query for the prospect concurrently. Results keep
// query order and queries that returned nothing are dropped.
func (r *Researcher) Research(ctx context.Context, name, headline, depth string) []Result {
	queries := BuildQueries(name, headline, depth)
	if len(queries) == 0 {
		return nil
	}

	found := make([]Result, len(queries))
	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snippets, err := r.searcher.Search(ctx, query, maxSnippetsPerQuery)
			if err != nil {
				log.Printf("[RESEARCH] Search failed for %q: %v", query, err)
				return
			}
			found[i] = Result{Query: query, Snippets: snippets}
		}()
	}
	wg.Wait()

	results := make([]Result, 0, len(found))
	for _, res := range found {
		if len(res.Snippets) > 0 {
			results = append(results, res)
		}
	}
	if len(results) == 0 {
		return nil
	}
	return results
}
