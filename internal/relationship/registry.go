package relationship

import (
	"fmt"
	"sort"
)

// Pair identifies the directed relationship From -> To.
type Pair struct {
	From string
	To   string
}

// Registry owns every relationship, keyed by directed actor-ID pair. The opposite of (a, b) is (b, a).
type Registry struct {
	tiers *Tiers
	rels  map[Pair]*Relationship
}

func NewRegistry(tiers *Tiers) *Registry {
	if tiers == nil {
		tiers = DefaultTiers
	}
	return &Registry{tiers: tiers, rels: make(map[Pair]*Relationship)}
}

func (g *Registry) Tiers() *Tiers { return g.tiers }

func (g *Registry) Get(from, to string) (*Relationship, bool) {
	rel, ok := g.rels[Pair{From: from, To: to}]
	return rel, ok
}

// Ensure returns the relationship from -> to, creating an empty one if needed.
func (g *Registry) Ensure(from, to string) *Relationship {
	key := Pair{From: from, To: to}
	if rel, ok := g.rels[key]; ok {
		return rel
	}
	rel := newRelationship(from, to, g.tiers)
	g.rels[key] = rel
	return rel
}

// Opposite resolves the reverse side of rel, creating it on demand.
func (g *Registry) Opposite(rel *Relationship) *Relationship {
	return g.Ensure(rel.To, rel.From)
}

// Link resolves both directions between two cats.
func (g *Registry) Link(a, b string) (*Relationship, *Relationship) {
	forward := g.Ensure(a, b)
	return forward, g.Opposite(forward)
}

// Of lists the relationships a cat holds toward others, ordered by target.
func (g *Registry) Of(from string) []*Relationship {
	var out []*Relationship
	for key, rel := range g.rels {
		if key.From == from {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].To < out[j].To })
	return out
}

// All lists every relationship ordered by (from, to).
func (g *Registry) All() []*Relationship {
	out := make([]*Relationship, 0, len(g.rels))
	for _, rel := range g.rels {
		out = append(out, rel)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

func (g *Registry) Len() int { return len(g.rels) }

// Load restores saved relationships, replacing any existing ones for the same pairs.
func (g *Registry) Load(snapshots []Snapshot) error {
	for _, s := range snapshots {
		if s.From == "" || s.To == "" {
			return fmt.Errorf("relationship snapshot missing cat id")
		}
		if s.From == s.To {
			return fmt.Errorf("relationship snapshot from %s to itself", s.From)
		}
		rel := newRelationship(s.From, s.To, g.tiers)
		rel.Mates = s.Mates
		rel.Family = s.Family
		rel.Log = append([]string(nil), s.Log...)
		rel.mustAdd(Romance, s.Romance)
		rel.mustAdd(Like, s.Like)
		rel.mustAdd(Respect, s.Respect)
		rel.mustAdd(Trust, s.Trust)
		rel.mustAdd(Comfort, s.Comfort)
		g.rels[Pair{From: s.From, To: s.To}] = rel
	}
	return nil
}

func (g *Registry) Snapshots() []Snapshot {
	all := g.All()
	out := make([]Snapshot, 0, len(all))
	for _, rel := range all {
		out = append(out, rel.Snapshot())
	}
	return out
}
