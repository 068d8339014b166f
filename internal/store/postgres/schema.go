package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	// All statements run in one implicit transaction; IF NOT EXISTS keeps reruns harmless.
	ddl := `
CREATE TABLE IF NOT EXISTS relationships (
    cat_from_id TEXT NOT NULL,
    cat_to_id   TEXT NOT NULL,
    moon        INTEGER NOT NULL,
    mates       BOOLEAN DEFAULT FALSE,
    family      BOOLEAN DEFAULT FALSE,
    romance     INTEGER DEFAULT 0,
    like_value  INTEGER DEFAULT 0,
    respect     INTEGER DEFAULT 0,
    trust       INTEGER DEFAULT 0,
    comfort     INTEGER DEFAULT 0,
    log         TEXT[] DEFAULT '{}',
    PRIMARY KEY (cat_from_id, cat_to_id)
);

CREATE TABLE IF NOT EXISTS events (
    id       BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    moon     INTEGER NOT NULL,
    event_id TEXT NOT NULL,
    text     TEXT NOT NULL,
    types    TEXT[] DEFAULT '{}',
    cat_ids  TEXT[] DEFAULT '{}',
    search_vector TSVECTOR GENERATED ALWAYS AS (to_tsvector('english', text)) STORED
);

CREATE TABLE IF NOT EXISTS statuses (
    cat_id     TEXT PRIMARY KEY,
    snapshot   JSONB NOT NULL,
    updated_at TIMESTAMPTZ DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_relationships_to ON relationships (cat_to_id);
CREATE INDEX IF NOT EXISTS idx_events_moon ON events (moon);
CREATE INDEX IF NOT EXISTS idx_events_event_id ON events (event_id);
CREATE INDEX IF NOT EXISTS idx_events_cat_ids ON events USING GIN (cat_ids);
CREATE INDEX IF NOT EXISTS idx_events_types ON events USING GIN (types);
CREATE INDEX IF NOT EXISTS idx_events_search ON events USING GIN (search_vector);
`
	_, err := c.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
