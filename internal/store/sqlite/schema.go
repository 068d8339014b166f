package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS relationships (
		cat_from_id TEXT NOT NULL,
		cat_to_id   TEXT NOT NULL,
		moon        INTEGER NOT NULL,
		mates       INTEGER DEFAULT 0,
		family      INTEGER DEFAULT 0,
		romance     INTEGER DEFAULT 0,
		like_value  INTEGER DEFAULT 0,
		respect     INTEGER DEFAULT 0,
		trust       INTEGER DEFAULT 0,
		comfort     INTEGER DEFAULT 0,
		log         TEXT DEFAULT '[]',
		PRIMARY KEY (cat_from_id, cat_to_id)
	);

	CREATE TABLE IF NOT EXISTS events (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		moon     INTEGER NOT NULL,
		event_id TEXT NOT NULL,
		text     TEXT NOT NULL,
		types    TEXT DEFAULT '[]',
		cat_ids  TEXT DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS statuses (
		cat_id     TEXT PRIMARY KEY,
		snapshot   TEXT NOT NULL,
		updated_at TEXT DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_relationships_to ON relationships (cat_to_id);
	CREATE INDEX IF NOT EXISTS idx_events_moon ON events (moon);
	CREATE INDEX IF NOT EXISTS idx_events_event_id ON events (event_id);

	CREATE VIRTUAL TABLE IF NOT EXISTS events_fts USING fts5(
		text,
		content=events,
		content_rowid=id
	);

	CREATE TRIGGER IF NOT EXISTS events_ai AFTER INSERT ON events BEGIN
		INSERT INTO events_fts(rowid, text) VALUES (new.id, new.text);
	END;

	CREATE TRIGGER IF NOT EXISTS events_ad AFTER DELETE ON events BEGIN
		INSERT INTO events_fts(events_fts, rowid, text) VALUES ('delete', old.id, old.text);
	END;
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	statements := splitStatements(ddl)
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

// splitStatements cuts ddl on lines ending in ";". Trigger bodies end in "END;" so
// their inner statements must not end a line on their own.
func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder
	inTrigger := false

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasPrefix(stripped, "CREATE TRIGGER") {
			inTrigger = true
		}
		if inTrigger && stripped != "END;" {
			continue
		}
		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
			inTrigger = false
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}

	return statements
}
