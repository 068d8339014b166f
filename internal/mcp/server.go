// Package mcp exposes a finished or running simulation's store to MCP clients.
// Every tool is read-only.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"clansim/internal/event"
	"clansim/internal/relationship"
	"clansim/internal/status"
	"clansim/internal/store"
)

// Querier is the read side of store.Store.
type Querier interface {
	GetRelationship(ctx context.Context, from, to string) (*store.Relationship, error)
	ListRelationships(ctx context.Context, catID string) ([]store.Relationship, error)
	GetStatus(ctx context.Context, catID string) (*status.Snapshot, error)
	ListEvents(ctx context.Context, filter store.EventFilter) ([]event.Record, error)
	SearchEvents(ctx context.Context, query string) ([]store.SearchResult, error)
	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

var _ Querier = (store.Store)(nil)

type Server struct {
	db    Querier
	tiers *relationship.Tiers
	mcp   *sdk.Server
}

// NewServer registers the tools. A nil tiers classifies with the stock cut-points.
func NewServer(db Querier, tiers *relationship.Tiers, version string) *Server {
	if tiers == nil {
		tiers = relationship.DefaultTiers
	}
	s := &Server{
		db:    db,
		tiers: tiers,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "clansim",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
