package research

import (
	"fmt"
	"strings"

	"github.com/marcus/coldopen/internal/types"
)

// BuildQueries derives search queries for a prospect. Light depth returns
// none. Medium runs a single identity query. Deep adds recent-news and
// interview queries. A prospect without a name cannot be researched.
func BuildQueries(name, headline, depth string) []string {
	name = strings.TrimSpace(name)
	headline = strings.TrimSpace(headline)
	if name == "" || depth == types.DepthLight {
		return nil
	}

	var queries []string
	if headline != "" {
		queries = append(queries, fmt.Sprintf("%q %s", name, headline))
	} else {
		queries = append(queries, fmt.Sprintf("%q", name))
	}

	if depth == types.DepthDeep {
		if headline != "" {
			queries = append(queries,
				fmt.Sprintf("%q recent news OR announcement", name),
				fmt.Sprintf("%q interview OR podcast OR article", name),
			)
		} else {
			queries = append(queries,
				fmt.Sprintf("%q professional", name),
				fmt.Sprintf("%q news", name),
			)
		}
	}
	return queries
}
