// Package store persists what a simulation produces: relationship snapshots, the
// event log and status histories.
package store

import (
	"context"
	"errors"

	"clansim/internal/event"
	"clansim/internal/relationship"
	"clansim/internal/status"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	SaveRelationships(ctx context.Context, moon int, snapshots []relationship.Snapshot) error
	AppendEvents(ctx context.Context, moon int, records []event.Record) error
	SaveStatus(ctx context.Context, catID string, snapshot status.Snapshot) error

	GetRelationship(ctx context.Context, from, to string) (*Relationship, error)
	ListRelationships(ctx context.Context, catID string) ([]Relationship, error)
	GetStatus(ctx context.Context, catID string) (*status.Snapshot, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]event.Record, error)
	SearchEvents(ctx context.Context, query string) ([]SearchResult, error)
	LatestMoon(ctx context.Context) (int, error)

	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
