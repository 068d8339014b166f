package event

import (
	"slices"

	"github.com/sirupsen/logrus"

	"clansim/internal/cat"
	"clansim/internal/clan"
	"clansim/internal/constraint"
	"clansim/internal/dice"
	"clansim/internal/logger"
	"clansim/internal/status"
)

// leaderLifeTags are tags that need the leader to have at least that many lives left.
var leaderLifeTags = map[string]int{
	TagSomeLives:   4,
	"lives_remain": 2,
	"high_lives":   7,
	"mid_lives":    4,
	"low_lives":    1,
}

// minSupplyClanAge is the clan age below which supplies are never touched by events.
const minSupplyClanAge = 5

// filter keeps the events q may run. Checks run in a fixed order and stop at the first failure.
func (g *Generator) filter(events []*ShortEvent, q *query) []*ShortEvent {
	var out []*ShortEvent
	for _, e := range events {
		if len(q.allowed) > 0 && !slices.Contains(q.allowed, e.ID) {
			continue
		}
		if slices.Contains(q.excluded, e.ID) {
			continue
		}
		if _, used := g.used[e.ID]; used {
			continue
		}
		if g.cfg.Generation.DebugOverrideRequirements {
			out = append(out, e)
			continue
		}
		if g.eligible(e, q) {
			out = append(out, e)
		}
	}
	return out
}

func (g *Generator) eligible(e *ShortEvent, q *query) bool {
	main := q.main
	if !q.ignoreSub && !sameSet(e.SubType, q.subTypes) {
		return false
	}
	if !matchesPlace(e.Location, g.clan.Biome) || !matchesPlace(e.Season, g.clan.Season) {
		return false
	}
	if !g.tagsAllow(e, main, q.random) {
		return false
	}

	// Full leader deaths are rare until the leader is old, murder aside.
	if main.Rank() == status.RankLeader && e.HasTag(TagAllLives) && !e.HasSubType(SubMurder) &&
		main.Moons < g.cfg.Death.LeaderFullDeathMinMoons && dice.IntN(g.rng, 5) != 0 {
		return false
	}

	oldAgeStart := g.cfg.Death.OldAgeDeathStart
	if e.HasSubType(SubOldAge) && main.Moons < oldAgeStart {
		return false
	}
	if !e.HasSubType(SubOldAge) && main.Moons > oldAgeStart && dice.IntN(g.rng, 3) != 0 {
		return false
	}

	if e.HasSubType(SubTransition) && main.Gender != main.GenderAlign {
		return false
	}

	var group []*cat.Cat
	if q.random != nil {
		group = []*cat.Cat{q.random}
	}
	if !e.Main.Matches(main, group, g.rels) {
		return false
	}
	if q.random != nil && e.Random != nil && !e.Random.Matches(q.random, []*cat.Cat{main}, g.rels) {
		return false
	}

	if e.Outsider != nil && !e.Outsider.allows(g.clan.ReputationTier()) {
		return false
	}
	if e.OtherClan != nil {
		if q.other == nil || !e.OtherClan.allows(q.other.RelationTier()) {
			return false
		}
		// A war going well should not draw events that sour relations further.
		if e.HasSubType(SubWar) && e.OtherClan.Changed < 0 && g.clan.War.Trend != clan.TrendDown {
			return false
		}
	}

	if len(e.Supplies) > 0 {
		if g.clan.Age < minSupplyClanAge {
			return false
		}
		if !g.suppliesAllow(e, q.avoidance) {
			return false
		}
	}
	return true
}

func sameSet(a, b []string) bool {
	for _, x := range a {
		if !slices.Contains(b, x) {
			return false
		}
	}
	for _, x := range b {
		if !slices.Contains(a, x) {
			return false
		}
	}
	return true
}

func (g *Generator) tagsAllow(e *ShortEvent, main, random *cat.Cat) bool {
	if main.Rank() == status.RankLeader {
		for tag, lives := range leaderLifeTags {
			if e.HasTag(tag) && g.clan.LeaderLives < lives {
				return false
			}
		}
	}
	if e.HasTag(TagRomantic) && random != nil && g.rules != nil && !g.rules.IsPotentialMate(random, main) {
		return false
	}
	return true
}

// suppliesAllow checks every supply block. Heavy losses are skipped unless a 1-in-avoidance roll hits.
func (g *Generator) suppliesAllow(e *ShortEvent, avoidance int) bool {
	size := g.clan.LivingCount()
	for _, block := range e.Supplies {
		if (block.Adjust == ReduceHalf || block.Adjust == ReduceFull) && dice.Between(g.rng, 1, avoidance) != 1 {
			return false
		}
		if block.Type == SupplyFreshkill {
			rating := g.clan.Freshkill.Rating(size)
			if !slices.Contains(block.Trigger, clan.TriggerAlways) && !slices.Contains(block.Trigger, rating) {
				return false
			}
			continue
		}
		if len(g.triggeredHerbs(block, size)) == 0 {
			return false
		}
	}
	return true
}

// triggeredHerbs lists the herbs a herb supply block applies to.
func (g *Generator) triggeredHerbs(block SupplyBlock, size int) []string {
	var known []string
	switch block.Type {
	case SupplyAllHerb, SupplyAnyHerb:
		if g.vocab != nil {
			known = g.vocab.Herbs
		} else {
			known = g.clan.Herbs.Herbs()
		}
	default:
		known = []string{block.Type}
	}
	return g.clan.Herbs.Matching(known, block.Trigger, size)
}

// choose draws an event proportionally to weight and binds its r_c. Events whose r_c
// cannot be filled are dropped and the draw repeats.
func (g *Generator) choose(candidates []*ShortEvent, q *query) (*ShortEvent, *cat.Cat) {
	if len(candidates) == 0 {
		return nil, nil
	}
	candidates = slices.Clone(candidates)
	weights := make([]int, len(candidates))
	for i, e := range candidates {
		weights[i] = max(e.Weight, 1)
	}
	ensure := g.cfg.Generation.DebugEnsureEventID

	if q.random != nil {
		if ensure != "" {
			i := slices.IndexFunc(candidates, func(e *ShortEvent) bool { return e.ID == ensure })
			if i < 0 {
				return nil, nil
			}
			return candidates[i], q.random
		}
		return candidates[dice.Weighted(g.rng, weights)], q.random
	}

	pool := g.clanmates(q.main)
	for len(candidates) > 0 {
		i := dice.Weighted(g.rng, weights)
		e := candidates[i]
		drop := func() {
			candidates = slices.Delete(candidates, i, i+1)
			weights = slices.Delete(weights, i, i+1)
		}

		if ensure != "" && e.ID != ensure {
			drop()
			continue
		}
		if !e.NeedsRandom() {
			return e, nil
		}
		if g.cfg.Generation.DebugOverrideRequirements {
			if len(pool) == 0 {
				drop()
				continue
			}
			return e, dice.Choice(g.rng, pool)
		}
		if random := g.findRandom(e, q.main, pool); random != nil {
			return e, random
		}
		logger.Log.WithFields(logrus.Fields{
			"event": e.ID,
			"main":  q.main.ID,
		}).Warn("no cat fits r_c")
		drop()
	}
	return nil, nil
}

// clanmates lists living home clan cats other than main.
func (g *Generator) clanmates(main *cat.Cat) []*cat.Cat {
	var out []*cat.Cat
	for _, c := range g.clan.Living() {
		if c.ID != main.ID {
			out = append(out, c)
		}
	}
	return out
}

// findRandom looks for a cat that satisfies r_c relative to main, and whom main's own
// relationship constraints accept. Cats already carrying an injury the event would give are skipped.
func (g *Generator) findRandom(e *ShortEvent, main *cat.Cat, pool []*cat.Cat) *cat.Cat {
	var injuries []string
	for _, block := range e.Injury {
		if slices.Contains(block.Cats, RoleRandom) {
			injuries = append(injuries, block.Injuries...)
		}
	}
	if g.vocab != nil {
		injuries = g.vocab.ExpandInjuries(injuries)
	}

	for _, c := range dice.Sample(g.rng, pool, len(pool)) {
		if !e.Random.Matches(c, []*cat.Cat{main}, g.rels) {
			continue
		}
		if len(e.Main.RelationshipStatus) > 0 && !e.Main.Matches(main, []*cat.Cat{c}, g.rels) {
			continue
		}
		if len(injuries) > 0 && constraint.HasAnyInjury(c, injuries) {
			continue
		}
		return c
	}
	return nil
}

// livingKittens lists kittens alive in the home clan.
func (g *Generator) livingKittens(exclude ...*cat.Cat) []*cat.Cat {
	var out []*cat.Cat
	for _, c := range g.clan.Living() {
		if c.Rank() == status.RankKitten && !slices.Contains(exclude, c) {
			out = append(out, c)
		}
	}
	return out
}
