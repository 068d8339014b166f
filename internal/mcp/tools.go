package mcp

import (
	"context"
	"errors"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"clansim/internal/event"
	"clansim/internal/relationship"
	"clansim/internal/status"
	"clansim/internal/store"
)

type GetRelationshipInput struct {
	From string `json:"from" jsonschema:"ID of the cat holding the view"`
	To   string `json:"to" jsonschema:"ID of the cat being viewed"`
}

type ListRelationshipsInput struct {
	CatID string `json:"cat_id" jsonschema:"cat ID, matched on either side"`
}

type GetStatusInput struct {
	CatID string `json:"cat_id" jsonschema:"cat ID"`
}

type ListEventsInput struct {
	CatID    string `json:"cat_id,omitempty" jsonschema:"only events involving this cat"`
	Type     string `json:"type,omitempty" jsonschema:"only events of this type"`
	FromMoon int    `json:"from_moon,omitempty" jsonschema:"first moon to include"`
	ToMoon   int    `json:"to_moon,omitempty" jsonschema:"last moon to include"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of events"`
}

type SearchEventsInput struct {
	Query string `json:"query" jsonschema:"search terms; quote phrases, prefix with - to exclude"`
}

type ClassifyValueInput struct {
	Dimension string `json:"dimension" jsonschema:"romance, like, respect, trust or comfort"`
	Value     int    `json:"value" jsonschema:"relationship value"`
}

type RunSQLInput struct {
	Query  string         `json:"query" jsonschema:"a single read-only SELECT statement"`
	Params map[string]any `json:"params,omitempty" jsonschema:"positional parameters keyed 1..n"`
}

type RelationshipOutput struct {
	From   string            `json:"from"`
	To     string            `json:"to"`
	Moon   int               `json:"moon"`
	Mates  bool              `json:"mates"`
	Family bool              `json:"family"`
	Values map[string]int    `json:"values"`
	Tiers  map[string]string `json:"tiers"`
	Log    []string          `json:"log"`
}

type ListRelationshipsOutput struct {
	Relationships []RelationshipOutput `json:"relationships"`
}

type StatusOutput struct {
	CatID    string                 `json:"cat_id"`
	Groups   []status.GroupEntry    `json:"groups"`
	Standing []status.StandingEntry `json:"standing"`
}

type EventOutput struct {
	Moon    int      `json:"moon"`
	EventID string   `json:"event_id"`
	Text    string   `json:"text"`
	Types   []string `json:"types"`
	CatIDs  []string `json:"cat_ids"`
}

type ListEventsOutput struct {
	Events []EventOutput `json:"events"`
}

type SearchEventsOutput struct {
	Results []store.SearchResult `json:"results"`
}

type ClassifyValueOutput struct {
	Dimension string `json:"dimension"`
	Value     int    `json:"value"`
	Tier      string `json:"tier"`
	Group     string `json:"group"`
}

type RunSQLOutput struct {
	Rows []map[string]any `json:"rows"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_relationship",
		Description: "Retrieve one cat's view of another, with values, tiers and log",
	}, s.handleGetRelationship)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_relationships",
		Description: "List every relationship a cat holds or is the subject of",
	}, s.handleListRelationships)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_status",
		Description: "Retrieve a cat's group and standing history",
	}, s.handleGetStatus)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_events",
		Description: "List logged events with optional filters",
	}, s.handleListEvents)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_events",
		Description: "Full-text search over event text",
	}, s.handleSearchEvents)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "classify_value",
		Description: "Name the tier a relationship value falls in",
	}, s.handleClassifyValue)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "run_sql",
		Description: "Run a read-only SQL query against the simulation store",
	}, s.handleRunSQL)
}

func (s *Server) handleGetRelationship(ctx context.Context, req *sdk.CallToolRequest, input GetRelationshipInput) (*sdk.CallToolResult, RelationshipOutput, error) {
	if input.From == "" || input.To == "" {
		return nil, RelationshipOutput{}, fmt.Errorf("from and to are required")
	}
	rel, err := s.db.GetRelationship(ctx, input.From, input.To)
	if errors.Is(err, store.ErrNotFound) {
		return nil, RelationshipOutput{}, fmt.Errorf("no relationship from %s to %s", input.From, input.To)
	}
	if err != nil {
		return nil, RelationshipOutput{}, err
	}
	return nil, s.relationshipOutput(*rel), nil
}

func (s *Server) handleListRelationships(ctx context.Context, req *sdk.CallToolRequest, input ListRelationshipsInput) (*sdk.CallToolResult, ListRelationshipsOutput, error) {
	if input.CatID == "" {
		return nil, ListRelationshipsOutput{}, fmt.Errorf("cat_id is required")
	}
	rels, err := s.db.ListRelationships(ctx, input.CatID)
	if err != nil {
		return nil, ListRelationshipsOutput{}, err
	}

	output := make([]RelationshipOutput, 0, len(rels))
	for _, rel := range rels {
		output = append(output, s.relationshipOutput(rel))
	}
	return nil, ListRelationshipsOutput{Relationships: output}, nil
}

func (s *Server) handleGetStatus(ctx context.Context, req *sdk.CallToolRequest, input GetStatusInput) (*sdk.CallToolResult, StatusOutput, error) {
	if input.CatID == "" {
		return nil, StatusOutput{}, fmt.Errorf("cat_id is required")
	}
	snap, err := s.db.GetStatus(ctx, input.CatID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, StatusOutput{}, fmt.Errorf("no status for %s", input.CatID)
	}
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{CatID: input.CatID, Groups: snap.GroupHistory, Standing: snap.StandingHistory}, nil
}

func (s *Server) handleListEvents(ctx context.Context, req *sdk.CallToolRequest, input ListEventsInput) (*sdk.CallToolResult, ListEventsOutput, error) {
	records, err := s.db.ListEvents(ctx, store.EventFilter{
		CatID:    input.CatID,
		Type:     input.Type,
		FromMoon: input.FromMoon,
		ToMoon:   input.ToMoon,
		Limit:    input.Limit,
	})
	if err != nil {
		return nil, ListEventsOutput{}, err
	}

	output := make([]EventOutput, 0, len(records))
	for _, rec := range records {
		output = append(output, eventOutputFromRecord(rec))
	}
	return nil, ListEventsOutput{Events: output}, nil
}

func (s *Server) handleSearchEvents(ctx context.Context, req *sdk.CallToolRequest, input SearchEventsInput) (*sdk.CallToolResult, SearchEventsOutput, error) {
	if input.Query == "" {
		return nil, SearchEventsOutput{}, fmt.Errorf("query is required")
	}
	results, err := s.db.SearchEvents(ctx, input.Query)
	if err != nil {
		return nil, SearchEventsOutput{}, err
	}
	if results == nil {
		results = []store.SearchResult{}
	}
	return nil, SearchEventsOutput{Results: results}, nil
}

func (s *Server) handleClassifyValue(ctx context.Context, req *sdk.CallToolRequest, input ClassifyValueInput) (*sdk.CallToolResult, ClassifyValueOutput, error) {
	dim := relationship.Dimension(input.Dimension)
	if !dim.Valid() {
		return nil, ClassifyValueOutput{}, fmt.Errorf("%w: %s", relationship.ErrUnknownDimension, input.Dimension)
	}
	if input.Value < dim.Min() || input.Value > dim.Max() {
		return nil, ClassifyValueOutput{}, fmt.Errorf("%s values run from %d to %d", dim, dim.Min(), dim.Max())
	}
	tier := s.tiers.Classify(dim, input.Value)
	return nil, ClassifyValueOutput{
		Dimension: string(dim),
		Value:     input.Value,
		Tier:      string(tier),
		Group:     string(s.tiers.Group(input.Value)),
	}, nil
}

func (s *Server) handleRunSQL(ctx context.Context, req *sdk.CallToolRequest, input RunSQLInput) (*sdk.CallToolResult, RunSQLOutput, error) {
	if input.Query == "" {
		return nil, RunSQLOutput{}, fmt.Errorf("query is required")
	}
	rows, err := s.db.RunSQL(ctx, input.Query, input.Params)
	if err != nil {
		return nil, RunSQLOutput{}, err
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return nil, RunSQLOutput{Rows: rows}, nil
}

func (s *Server) relationshipOutput(rel store.Relationship) RelationshipOutput {
	values := map[string]int{
		string(relationship.Romance): rel.Romance,
		string(relationship.Like):    rel.Like,
		string(relationship.Respect): rel.Respect,
		string(relationship.Trust):   rel.Trust,
		string(relationship.Comfort): rel.Comfort,
	}
	tiers := make(map[string]string, len(values))
	for _, dim := range relationship.Dimensions {
		tiers[string(dim)] = string(s.tiers.Classify(dim, values[string(dim)]))
	}
	return RelationshipOutput{
		From:   rel.From,
		To:     rel.To,
		Moon:   rel.Moon,
		Mates:  rel.Mates,
		Family: rel.Family,
		Values: values,
		Tiers:  tiers,
		Log:    append([]string{}, rel.Log...),
	}
}

func eventOutputFromRecord(rec event.Record) EventOutput {
	return EventOutput{
		Moon:    rec.Moon,
		EventID: rec.EventID,
		Text:    rec.Text,
		Types:   append([]string{}, rec.Types...),
		CatIDs:  append([]string{}, rec.CatIDs...),
	}
}
