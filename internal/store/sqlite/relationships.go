package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"clansim/internal/relationship"
	"clansim/internal/store"
)

const relationshipColumns = `cat_from_id, cat_to_id, moon, mates, family, romance, like_value, respect, trust, comfort, log`

// SaveRelationships upserts every snapshot, stamping it with moon.
func (c *Client) SaveRelationships(ctx context.Context, moon int, snapshots []relationship.Snapshot) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO relationships (`+relationshipColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (cat_from_id, cat_to_id) DO UPDATE SET
		moon = excluded.moon,
		mates = excluded.mates,
		family = excluded.family,
		romance = excluded.romance,
		like_value = excluded.like_value,
		respect = excluded.respect,
		trust = excluded.trust,
		comfort = excluded.comfort,
		log = excluded.log`)
	if err != nil {
		return fmt.Errorf("preparing relationship upsert: %w", err)
	}
	defer stmt.Close()

	for _, s := range snapshots {
		if strings.TrimSpace(s.From) == "" || strings.TrimSpace(s.To) == "" {
			return fmt.Errorf("relationship without cat ids")
		}
		logJSON, err := json.Marshal(nonNil(s.Log))
		if err != nil {
			return fmt.Errorf("marshaling relationship log: %w", err)
		}
		_, err = stmt.ExecContext(ctx,
			s.From, s.To, moon, s.Mates, s.Family,
			s.Romance, s.Like, s.Respect, s.Trust, s.Comfort, string(logJSON),
		)
		if err != nil {
			return fmt.Errorf("upserting relationship %s -> %s: %w", s.From, s.To, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (c *Client) GetRelationship(ctx context.Context, from, to string) (*store.Relationship, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+relationshipColumns+` FROM relationships WHERE cat_from_id = ? AND cat_to_id = ?`,
		from, to,
	)
	rel, err := scanRelationship(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("relationship %s -> %s: %w", from, to, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rel, nil
}

// ListRelationships lists catID's relationships in both directions, outgoing first.
func (c *Client) ListRelationships(ctx context.Context, catID string) ([]store.Relationship, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT `+relationshipColumns+`
	FROM relationships
	WHERE cat_from_id = ? OR cat_to_id = ?
	ORDER BY cat_from_id <> ?, cat_from_id, cat_to_id`,
		catID, catID, catID,
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

type scanner interface {
	Scan(dest ...any) error
}

func scanRelationship(row scanner) (*store.Relationship, error) {
	var rel store.Relationship
	var logText string
	err := row.Scan(
		&rel.From, &rel.To, &rel.Moon, &rel.Mates, &rel.Family,
		&rel.Romance, &rel.Like, &rel.Respect, &rel.Trust, &rel.Comfort, &logText,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning relationship: %w", err)
	}
	if err := json.Unmarshal([]byte(logText), &rel.Log); err != nil {
		return nil, fmt.Errorf("unmarshaling relationship log: %w", err)
	}
	return &rel, nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
