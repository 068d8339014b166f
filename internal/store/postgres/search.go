package postgres

import (
	"context"
	"fmt"
	"strings"

	"clansim/internal/store"
)

// SearchEvents runs a web-search style query over event text, best matches first.
func (c *Client) SearchEvents(ctx context.Context, query string) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	sql := `
SELECT moon, event_id, text,
    ts_rank(search_vector, websearch_to_tsquery('english', $1)) AS score,
    ts_headline('english', text, websearch_to_tsquery('english', $1),
        'MaxFragments=1, MaxWords=20, MinWords=5, StartSel=**, StopSel=**') AS snippet
FROM events
WHERE search_vector @@ websearch_to_tsquery('english', $1)
ORDER BY score DESC, moon DESC
LIMIT 50
`

	rows, err := c.pool.Query(ctx, sql, query)
	if err != nil {
		return nil, fmt.Errorf("searching events: %w", err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		var score float32
		if err := rows.Scan(&r.Moon, &r.EventID, &r.Text, &score, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		r.Score = float64(score)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	return results, nil
}
