package store

import "clansim/internal/relationship"

// Relationship is a stored snapshot and the moon it was last saved on.
type Relationship struct {
	Moon int `json:"moon"`
	relationship.Snapshot
}

// EventFilter narrows ListEvents. Zero fields do not filter; ToMoon 0 means no upper bound.
type EventFilter struct {
	CatID    string
	Type     string
	FromMoon int
	ToMoon   int
	Limit    int
}

// DefaultEventLimit caps ListEvents when the filter sets no limit.
const DefaultEventLimit = 200

// EffectiveLimit is the row cap a filter asks for.
func (f EventFilter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return DefaultEventLimit
	}
	return f.Limit
}

type SearchResult struct {
	Moon    int     `json:"moon"`
	EventID string  `json:"event_id"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}
