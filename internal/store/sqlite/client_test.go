package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clansim/internal/event"
	"clansim/internal/relationship"
	"clansim/internal/status"
	"clansim/internal/store"
)

func newClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	c, err := New(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(ctx) })
	require.NoError(t, c.EnsureSchema(ctx))
	return c
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	c := newClient(t)
	require.NoError(t, c.EnsureSchema(context.Background()))
}

func TestSplitStatementsKeepsTriggersWhole(t *testing.T) {
	ddl := `
	CREATE TABLE a (id INTEGER);
	-- comment
	CREATE TRIGGER t AFTER INSERT ON a BEGIN
		INSERT INTO b VALUES (new.id);
	END;
	CREATE INDEX i ON a (id);
	`
	stmts := splitStatements(ddl)
	require.Len(t, stmts, 4)
	assert.Contains(t, stmts[1], "INSERT INTO b")
	assert.Contains(t, stmts[1], "END;")
}

func TestRelationships(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	first := []relationship.Snapshot{
		{From: "fire", To: "sand", Mates: true, Romance: 80, Like: 60, Log: []string{"fire and sand shared tongues"}},
		{From: "sand", To: "fire", Mates: true, Romance: 70},
		{From: "leaf", To: "fire", Family: true, Trust: 40},
	}
	require.NoError(t, c.SaveRelationships(ctx, 1, first))

	rel, err := c.GetRelationship(ctx, "fire", "sand")
	require.NoError(t, err)
	assert.Equal(t, 1, rel.Moon)
	assert.Equal(t, first[0], rel.Snapshot)

	rel, err = c.GetRelationship(ctx, "sand", "fire")
	require.NoError(t, err)
	assert.Equal(t, []string{}, rel.Log)

	updated := first[0]
	updated.Like = 75
	require.NoError(t, c.SaveRelationships(ctx, 2, []relationship.Snapshot{updated}))
	rel, err = c.GetRelationship(ctx, "fire", "sand")
	require.NoError(t, err)
	assert.Equal(t, 2, rel.Moon)
	assert.Equal(t, 75, rel.Like)

	_, err = c.GetRelationship(ctx, "fire", "leaf")
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := c.ListRelationships(ctx, "fire")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "fire", list[0].From, "outgoing relationships come first")

	err = c.SaveRelationships(ctx, 3, []relationship.Snapshot{{From: "fire"}})
	assert.Error(t, err)
}

func TestEvents(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	require.NoError(t, c.AppendEvents(ctx, 1, []event.Record{
		{EventID: "tree_fall", Text: "A falling branch struck fire.", Types: []string{event.TypeDeath}, CatIDs: []string{"fire"}},
		{EventID: "feather", Text: "sand found a feather.", Types: []string{event.TypeMisc}, CatIDs: []string{"sand"}},
	}))
	require.NoError(t, c.AppendEvents(ctx, 2, []event.Record{
		{EventID: "border", Text: "fire and sand patrolled the border.", Types: []string{event.TypeMisc, event.TypeOtherClans}, CatIDs: []string{"fire", "sand"}},
	}))
	require.NoError(t, c.AppendEvents(ctx, 3, nil))

	all, err := c.ListEvents(ctx, store.EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[0].Moon)
	assert.Equal(t, "border", all[2].EventID)
	assert.Equal(t, []string{"fire", "sand"}, all[2].CatIDs)

	tests := []struct {
		name   string
		filter store.EventFilter
		want   []string
	}{
		{"by cat", store.EventFilter{CatID: "sand"}, []string{"feather", "border"}},
		{"by type", store.EventFilter{Type: event.TypeMisc}, []string{"feather", "border"}},
		{"by cat and type", store.EventFilter{CatID: "fire", Type: event.TypeDeath}, []string{"tree_fall"}},
		{"from moon", store.EventFilter{FromMoon: 2}, []string{"border"}},
		{"to moon", store.EventFilter{ToMoon: 1}, []string{"tree_fall", "feather"}},
		{"limit", store.EventFilter{Limit: 1}, []string{"tree_fall"}},
		{"nothing", store.EventFilter{CatID: "leaf"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ListEvents(ctx, tt.filter)
			require.NoError(t, err)
			var ids []string
			for _, r := range got {
				ids = append(ids, r.EventID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	moon, err := c.LatestMoon(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, moon)

	results, err := c.SearchEvents(ctx, "feather")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "feather", results[0].EventID)
	assert.Contains(t, results[0].Snippet, "**feather**")

	results, err = c.SearchEvents(ctx, "fire -branch")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "border", results[0].EventID)

	_, err = c.SearchEvents(ctx, " ")
	assert.Error(t, err)
}

func TestLatestMoonEmpty(t *testing.T) {
	moon, err := newClient(t).LatestMoon(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, moon)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	rec, err := status.New(status.Options{Rank: status.RankWarrior})
	require.NoError(t, err)
	require.NoError(t, c.SaveStatus(ctx, "fire", rec.Snapshot()))

	rec.ChangeRank(status.RankDeputy)
	require.NoError(t, c.SaveStatus(ctx, "fire", rec.Snapshot()))

	got, err := c.GetStatus(ctx, "fire")
	require.NoError(t, err)
	assert.Equal(t, rec.Snapshot(), *got)

	_, err = c.GetStatus(ctx, "sand")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRunSQL(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	require.NoError(t, c.AppendEvents(ctx, 4, []event.Record{{EventID: "feather", Text: "sand found a feather."}}))

	rows, err := c.RunSQL(ctx, "SELECT event_id, moon FROM events WHERE moon = ?", map[string]any{"1": 4})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "feather", rows[0]["event_id"])
	assert.EqualValues(t, 4, rows[0]["moon"])

	_, err = c.RunSQL(ctx, "DELETE FROM events", nil)
	assert.Error(t, err)
	_, err = c.RunSQL(ctx, "SELECT 1; DROP TABLE events", nil)
	assert.Error(t, err)
	_, err = c.RunSQL(ctx, "SELECT ?", map[string]any{"2": 1})
	assert.Error(t, err)
}
