package sqlite

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

	ftsQuery := convertWebsearchToFTS5(query)

	sqlQuery := `
	SELECT e.moon, e.event_id, e.text,
		   bm25(events_fts) AS score,
		   snippet(events_fts, 0, '**', '**', '...', 20) AS snippet
	FROM events_fts
	JOIN events e ON events_fts.rowid = e.id
	WHERE events_fts MATCH ?
	ORDER BY score ASC, e.moon DESC
	LIMIT 50
	`

	rows, err := c.db.QueryContext(ctx, sqlQuery, ftsQuery)
	if err != nil {
		return nil, fmt.Errorf("searching events: %w", err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		if err := rows.Scan(&r.Moon, &r.EventID, &r.Text, &r.Score, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		// bm25 ranks better matches lower.
		r.Score = -r.Score
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	return results, nil
}

func convertWebsearchToFTS5(query string) string {
	var result strings.Builder
	var inQuote bool
	var current strings.Builder

	flushToken := func() {
		token := current.String()
		current.Reset()
		if token == "" {
			return
		}

		upper := strings.ToUpper(token)
		switch upper {
		case "AND", "OR", "NOT":
			if result.Len() > 0 {
				result.WriteString(" ")
			}
			result.WriteString(upper)
			return
		}

		// FTS5 NOT is binary, so a negated term joins without AND.
		negated := strings.HasPrefix(token, "-") && len(token) > 1
		if result.Len() > 0 {
			lastWord := lastWord(result.String())
			switch {
			case negated:
				result.WriteString(" NOT ")
			case lastWord != "AND" && lastWord != "OR" && lastWord != "NOT" && lastWord != "":
				result.WriteString(" AND ")
			default:
				result.WriteString(" ")
			}
		} else if negated {
			result.WriteString("NOT ")
		}

		if negated {
			token = token[1:]
		}
		result.WriteString(token)
	}

	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '"':
			if inQuote {
				inQuote = false
				token := current.String()
				current.Reset()
				if token != "" {
					if result.Len() > 0 {
						result.WriteString(" AND ")
					}
					result.WriteString(`"`)
					result.WriteString(token)
					result.WriteString(`"`)
				}
			} else {
				flushToken()
				inQuote = true
			}
		case inQuote:
			current.WriteByte(ch)
		case ch == ' ' || ch == '\t':
			flushToken()
		default:
			current.WriteByte(ch)
		}
	}

	flushToken()

	return result.String()
}

func lastWord(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}
