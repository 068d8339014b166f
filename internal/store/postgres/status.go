package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"clansim/internal/status"
	"clansim/internal/store"
)

func (c *Client) SaveStatus(ctx context.Context, catID string, snapshot status.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshaling status: %w", err)
	}
	_, err = c.pool.Exec(ctx, `
INSERT INTO statuses (cat_id, snapshot) VALUES ($1, $2::jsonb)
ON CONFLICT (cat_id) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = now()`,
		catID, string(data),
	)
	if err != nil {
		return fmt.Errorf("saving status of %s: %w", catID, err)
	}
	return nil
}

func (c *Client) GetStatus(ctx context.Context, catID string) (*status.Snapshot, error) {
	var data []byte
	err := c.pool.QueryRow(ctx, `SELECT snapshot FROM statuses WHERE cat_id = $1`, catID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("status of %s: %w", catID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading status of %s: %w", catID, err)
	}
	var snapshot status.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshaling status: %w", err)
	}
	return &snapshot, nil
}
