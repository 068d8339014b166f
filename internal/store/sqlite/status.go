package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"clansim/internal/status"
	"clansim/internal/store"
)

func (c *Client) SaveStatus(ctx context.Context, catID string, snapshot status.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshaling status: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
	INSERT INTO statuses (cat_id, snapshot) VALUES (?, ?)
	ON CONFLICT (cat_id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = datetime('now')`,
		catID, string(data),
	)
	if err != nil {
		return fmt.Errorf("saving status of %s: %w", catID, err)
	}
	return nil
}

func (c *Client) GetStatus(ctx context.Context, catID string) (*status.Snapshot, error) {
	var data string
	err := c.db.QueryRowContext(ctx, `SELECT snapshot FROM statuses WHERE cat_id = ?`, catID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("status of %s: %w", catID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading status of %s: %w", catID, err)
	}
	var snapshot status.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshaling status: %w", err)
	}
	return &snapshot, nil
}
