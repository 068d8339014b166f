// Package clan is the shared context events read and change: the home clan's
// surroundings, its neighbours, its supplies and its roster.
package clan

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"clansim/internal/cat"
	"clansim/internal/config"
	"clansim/internal/dice"
)

// Reputation tiers used by outsider.current_rep.
const (
	RepHostile   = "hostile"
	RepNeutral   = "neutral"
	RepWelcoming = "welcoming"
)

// Relation tiers used by other_clan.current_rep.
const (
	RelHostile = "hostile"
	RelNeutral = "neutral"
	RelAlly    = "ally"
)

const (
	MaxReputation = 100
	MaxRelations  = 30
	LeaderLives   = 9
)

// War trends recorded after each war moon.
const (
	TrendDown = "rel_down"
	TrendUp   = "rel_up"
	TrendNone = "neutral"
)

type OtherClan struct {
	Name        string `yaml:"name" json:"name"`
	Relations   int    `yaml:"relations" json:"relations"`
	Temperament string `yaml:"temperament" json:"temperament"`
}

// RelationTier buckets relations: up to 6 hostile, up to 16 neutral, above that ally.
func (o *OtherClan) RelationTier() string {
	switch {
	case o.Relations <= 6:
		return RelHostile
	case o.Relations <= 16:
		return RelNeutral
	default:
		return RelAlly
	}
}

type War struct {
	AtWar bool   `yaml:"at_war" json:"at_war"`
	Enemy string `yaml:"enemy" json:"enemy"`
	// Trend is how relations with the enemy moved on the last war moon.
	Trend string `yaml:"trend" json:"trend"`
}

// Clan is the home clan and its surroundings.
type Clan struct {
	Name        string
	Biome       string
	Season      string
	Age         int
	Reputation  int
	Disasters   bool
	LeaderLives int
	OtherClans  []*OtherClan
	War         War
	Freshkill   FreshkillPile
	Herbs       HerbSupply

	cats  map[string]*cat.Cat
	order []string
}

// New builds an empty clan from config.
func New(cfg config.ClanConfig) *Clan {
	return &Clan{
		Name:        cfg.Name,
		Biome:       cfg.Biome,
		Season:      cfg.Season,
		Age:         cfg.Age,
		Reputation:  cfg.Reputation,
		Disasters:   cfg.Disasters,
		LeaderLives: LeaderLives,
		Herbs:       HerbSupply{},
		cats:        make(map[string]*cat.Cat),
	}
}

// Add registers a cat. Cats without an ID get a fresh one.
func (c *Clan) Add(member *cat.Cat) error {
	if member.ID == "" {
		member.ID = cat.NewID()
	}
	if _, ok := c.cats[member.ID]; ok {
		return fmt.Errorf("duplicate cat id: %s", member.ID)
	}
	c.cats[member.ID] = member
	c.order = append(c.order, member.ID)
	return nil
}

func (c *Clan) Get(id string) (*cat.Cat, bool) {
	member, ok := c.cats[id]
	return member, ok
}

// All lists every cat ever added, in insertion order.
func (c *Clan) All() []*cat.Cat {
	out := make([]*cat.Cat, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.cats[id])
	}
	return out
}

// Living lists cats alive in the home clan, in insertion order.
func (c *Clan) Living() []*cat.Cat {
	var out []*cat.Cat
	for _, id := range c.order {
		if member := c.cats[id]; member.AliveInHomeClan() {
			out = append(out, member)
		}
	}
	return out
}

func (c *Clan) LivingCount() int { return len(c.Living()) }

// ChangeReputation shifts reputation, clamped to [0, 100].
func (c *Clan) ChangeReputation(delta int) {
	c.Reputation = min(max(c.Reputation+delta, 0), MaxReputation)
}

// ReputationTier buckets reputation: up to 30 hostile, up to 70 neutral, above that welcoming.
func (c *Clan) ReputationTier() string {
	switch {
	case c.Reputation <= 30:
		return RepHostile
	case c.Reputation <= 70:
		return RepNeutral
	default:
		return RepWelcoming
	}
}

func (c *Clan) OtherClan(name string) (*OtherClan, bool) {
	i := slices.IndexFunc(c.OtherClans, func(o *OtherClan) bool { return o.Name == name })
	if i < 0 {
		return nil, false
	}
	return c.OtherClans[i], true
}

// ChangeRelations shifts relations with one clan, clamped to [0, 30].
func (c *Clan) ChangeRelations(other *OtherClan, delta int) {
	other.Relations = min(max(other.Relations+delta, 0), MaxRelations)
}

// PickOtherClan chooses the clan an event involves. While at war, the enemy is chosen
// unless a 1-in-chance roll fails; chance is 5 after a bad war moon and 2 otherwise.
// It reports whether the pick is war related.
func (c *Clan) PickOtherClan(rng *rand.Rand) (*OtherClan, bool) {
	chance := 5
	if c.War.Trend != TrendDown {
		chance = 2
	}
	if c.War.AtWar && dice.Between(rng, 1, chance) != 1 {
		if enemy, ok := c.OtherClan(c.War.Enemy); ok {
			return enemy, true
		}
	}
	if len(c.OtherClans) == 0 {
		return nil, false
	}
	return dice.Choice(rng, c.OtherClans), false
}

// CampAvoidance is the 1-in-n chance that a heavy supply loss still happens. Each living
// cat on the CAMP path raises n by its primary tier plus one, or by its secondary tier.
func (c *Clan) CampAvoidance() int {
	chance := 1
	for _, member := range c.Living() {
		switch {
		case member.Skills.Primary != nil && member.Skills.Primary.Path == cat.SkillCamp:
			chance += member.Skills.Primary.Tier + 1
		case member.Skills.Secondary != nil && member.Skills.Secondary.Path == cat.SkillCamp:
			chance += member.Skills.Secondary.Tier
		}
	}
	return chance
}
