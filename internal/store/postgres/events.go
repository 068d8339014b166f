package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"clansim/internal/event"
	"clansim/internal/store"
)

func (c *Client) AppendEvents(ctx context.Context, moon int, records []event.Record) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		types, cats := r.Types, r.CatIDs
		if types == nil {
			types = []string{}
		}
		if cats == nil {
			cats = []string{}
		}
		rows = append(rows, []any{moon, r.EventID, r.Text, types, cats})
	}

	_, err := c.pool.CopyFrom(ctx,
		pgx.Identifier{"events"},
		[]string{"moon", "event_id", "text", "types", "cat_ids"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("appending events: %w", err)
	}
	return nil
}

// ListEvents returns matching records oldest first.
func (c *Client) ListEvents(ctx context.Context, filter store.EventFilter) ([]event.Record, error) {
	rows, err := c.pool.Query(ctx, `
SELECT moon, event_id, text, types, cat_ids
FROM events
WHERE ($1 = '' OR $1 = ANY(cat_ids))
  AND ($2 = '' OR $2 = ANY(types))
  AND moon >= $3
  AND ($4 = 0 OR moon <= $4)
ORDER BY moon ASC, id ASC
LIMIT $5`,
		filter.CatID, filter.Type, filter.FromMoon, filter.ToMoon, filter.EffectiveLimit(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	results := []event.Record{}
	for rows.Next() {
		var r event.Record
		if err := rows.Scan(&r.Moon, &r.EventID, &r.Text, &r.Types, &r.CatIDs); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return results, nil
}

// LatestMoon is the highest moon with a saved event or relationship, 0 for an empty store.
func (c *Client) LatestMoon(ctx context.Context) (int, error) {
	var moon int
	err := c.pool.QueryRow(ctx, `
SELECT COALESCE(GREATEST(
    (SELECT MAX(moon) FROM events),
    (SELECT MAX(moon) FROM relationships)
), 0)`).Scan(&moon)
	if err != nil {
		return 0, fmt.Errorf("reading latest moon: %w", err)
	}
	return moon, nil
}
