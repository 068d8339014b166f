package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"clansim/internal/relationship"
	"clansim/internal/store"
)

const relationshipColumns = `cat_from_id, cat_to_id, moon, mates, family, romance, like_value, respect, trust, comfort, log`

// SaveRelationships upserts every snapshot in one batch, stamping it with moon.
func (c *Client) SaveRelationships(ctx context.Context, moon int, snapshots []relationship.Snapshot) error {
	batch := &pgx.Batch{}
	for _, s := range snapshots {
		if strings.TrimSpace(s.From) == "" || strings.TrimSpace(s.To) == "" {
			return fmt.Errorf("relationship without cat ids")
		}
		log := s.Log
		if log == nil {
			log = []string{}
		}
		batch.Queue(`
INSERT INTO relationships (`+relationshipColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (cat_from_id, cat_to_id) DO UPDATE SET
    moon = EXCLUDED.moon,
    mates = EXCLUDED.mates,
    family = EXCLUDED.family,
    romance = EXCLUDED.romance,
    like_value = EXCLUDED.like_value,
    respect = EXCLUDED.respect,
    trust = EXCLUDED.trust,
    comfort = EXCLUDED.comfort,
    log = EXCLUDED.log`,
			s.From, s.To, moon, s.Mates, s.Family, s.Romance, s.Like, s.Respect, s.Trust, s.Comfort, log,
		)
	}
	if batch.Len() == 0 {
		return nil
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upserting relationships: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (c *Client) GetRelationship(ctx context.Context, from, to string) (*store.Relationship, error) {
	row := c.pool.QueryRow(ctx,
		`SELECT `+relationshipColumns+` FROM relationships WHERE cat_from_id = $1 AND cat_to_id = $2`,
		from, to,
	)
	rel, err := scanRelationship(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("relationship %s -> %s: %w", from, to, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rel, nil
}

// ListRelationships lists catID's relationships in both directions, outgoing first.
func (c *Client) ListRelationships(ctx context.Context, catID string) ([]store.Relationship, error) {
	rows, err := c.pool.Query(ctx, `
SELECT `+relationshipColumns+`
FROM relationships
WHERE cat_from_id = $1 OR cat_to_id = $1
ORDER BY cat_from_id <> $1, cat_from_id, cat_to_id`,
		catID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing relationships: %w", err)
	}
	defer rows.Close()

	results := []store.Relationship{}
	for rows.Next() {
		rel, err := scanRelationship(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating relationships: %w", err)
	}
	return results, nil
}

func scanRelationship(row pgx.Row) (*store.Relationship, error) {
	var rel store.Relationship
	err := row.Scan(
		&rel.From, &rel.To, &rel.Moon, &rel.Mates, &rel.Family,
		&rel.Romance, &rel.Like, &rel.Respect, &rel.Trust, &rel.Comfort, &rel.Log,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning relationship: %w", err)
	}
	if rel.Log == nil {
		rel.Log = []string{}
	}
	return &rel, nil
}
