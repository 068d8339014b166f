package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"clansim/internal/event"
	"clansim/internal/store"
)

func (c *Client) AppendEvents(ctx context.Context, moon int, records []event.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, r := range records {
		typesJSON, err := json.Marshal(nonNil(r.Types))
		if err != nil {
			return fmt.Errorf("marshaling event types: %w", err)
		}
		catsJSON, err := json.Marshal(nonNil(r.CatIDs))
		if err != nil {
			return fmt.Errorf("marshaling event cats: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO events (moon, event_id, text, types, cat_ids) VALUES (?, ?, ?, ?, ?)`,
			moon, r.EventID, r.Text, string(typesJSON), string(catsJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting event %s: %w", r.EventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListEvents returns matching records oldest first.
func (c *Client) ListEvents(ctx context.Context, filter store.EventFilter) ([]event.Record, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT e.moon, e.event_id, e.text, e.types, e.cat_ids
	FROM events e
	WHERE (? = '' OR EXISTS (SELECT 1 FROM json_each(e.cat_ids) WHERE value = ?))
	  AND (? = '' OR EXISTS (SELECT 1 FROM json_each(e.types) WHERE value = ?))
	  AND e.moon >= ?
	  AND (? = 0 OR e.moon <= ?)
	ORDER BY e.moon ASC, e.id ASC
	LIMIT ?`,
		filter.CatID, filter.CatID,
		filter.Type, filter.Type,
		filter.FromMoon,
		filter.ToMoon, filter.ToMoon,
		filter.EffectiveLimit(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	results := []event.Record{}
	for rows.Next() {
		var r event.Record
		var typesText, catsText string
		if err := rows.Scan(&r.Moon, &r.EventID, &r.Text, &typesText, &catsText); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		if err := json.Unmarshal([]byte(typesText), &r.Types); err != nil {
			return nil, fmt.Errorf("unmarshaling event types: %w", err)
		}
		if err := json.Unmarshal([]byte(catsText), &r.CatIDs); err != nil {
			return nil, fmt.Errorf("unmarshaling event cats: %w", err)
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
	var moon sql.NullInt64
	err := c.db.QueryRowContext(ctx, `
	SELECT MAX(m) FROM (
		SELECT MAX(moon) AS m FROM events
		UNION ALL
		SELECT MAX(moon) AS m FROM relationships
	)`).Scan(&moon)
	if err != nil {
		return 0, fmt.Errorf("reading latest moon: %w", err)
	}
	return int(moon.Int64), nil
}
