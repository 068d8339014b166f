package interaction

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/sirupsen/logrus"

	"clansim/internal/cat"
	"clansim/internal/config"
	"clansim/internal/dice"
	"clansim/internal/logger"
	"clansim/internal/narrate"
	"clansim/internal/relationship"
)

// Tags attached to interaction outcomes.
const (
	TagRelation    = "relation"
	TagInteraction = "interaction"
	TagHealth      = "health"
)

// Environment is the clan context interactions are filtered by.
type Environment struct {
	Biome  string
	Season string
}

// Outcome describes an interaction that ran.
type Outcome struct {
	InteractionID string
	Dimension     relationship.Dimension
	Positive      bool
	Intensity     Intensity
	Text          string
	Tags          []string
	CatIDs        []string
	Injured       map[string][]string
}

// Source supplies the catalog; *Cache satisfies it.
type Source interface {
	Catalog() (*Catalog, error)
}

// Static serves a fixed catalog.
type Static struct{ C *Catalog }

func (s Static) Catalog() (*Catalog, error) { return s.C, nil }

// Engine runs interactions against the relationship registry.
type Engine struct {
	source Source
	rules  cat.Rules
	rels   *relationship.Registry
	cfg    config.RelationshipConfig
	rng    *rand.Rand
	used   []string
}

type Options struct {
	Source   Source
	Rules    cat.Rules
	Registry *relationship.Registry
	Config   config.RelationshipConfig
	Rand     *rand.Rand
}

func NewEngine(opts Options) *Engine {
	rels := opts.Registry
	if rels == nil {
		rels = relationship.NewRegistry(relationship.NewTiers(opts.Config.ValueIntervals))
	}
	return &Engine{
		source: opts.Source,
		rules:  opts.Rules,
		rels:   rels,
		cfg:    opts.Config,
		rng:    opts.Rand,
	}
}

func (e *Engine) Registry() *relationship.Registry { return e.rels }

// Used returns the recently used interaction IDs.
func (e *Engine) Used() []string { return slices.Clone(e.used) }

// Run plays one interaction from -> to. It returns nil with no error when nothing ran:
// ineligible cats, or no catalog entry surviving the filters.
func (e *Engine) Run(from, to *cat.Cat, env Environment) (*Outcome, error) {
	if !from.AliveInHomeClan() || !to.AliveInHomeClan() || from.ID == to.ID {
		return nil, nil
	}

	catalog, err := e.source.Catalog()
	if err != nil {
		return nil, fmt.Errorf("running interaction: %w", err)
	}

	rel, opposite := e.rels.Link(from.ID, to.ID)
	if from.IsMateOf(to) {
		rel.Mates = true
	}

	compat := e.compatibility(from, to)
	positive := e.rollPolarity(rel, compat)
	dim := e.rollType(rel, from, to, positive)
	intensity := Intensities[dice.Weighted(e.rng, intensityWeights)]

	candidates := e.filter(catalog.Single[dim][PolarityOf(positive)], intensity, env, from, to)
	if len(candidates) == 0 {
		logger.Log.WithFields(logrus.Fields{
			"from":      from.ID,
			"to":        to.ID,
			"type":      dim,
			"positive":  positive,
			"intensity": intensity,
		}).Warn("no interaction with these conditions")
		return nil, nil
	}
	chosen := e.pick(candidates)

	amount := e.amount(positive, intensity, compat)
	if intensity == High {
		e.cascade(rel, dim, amount)
	} else {
		_ = rel.Add(dim, amount)
	}
	e.react(opposite, chosen.ReactionRandomCat, compat)
	e.react(rel, chosen.AlsoInfluences, compat)

	roles := map[string]*cat.Cat{RoleMain: from, RoleRandom: to}
	injured := grantInjuries(e.rng, chosen.GetInjuries, roles, names(roles))

	text := narrate.Render(dice.Choice(e.rng, chosen.Interactions), names(roles)) + postscript(positive, intensity)
	rel.AppendLog(text + fmt.Sprintf(" - %s was %d moons old", displayName(from), from.Moons))

	tags := []string{TagRelation, TagInteraction}
	if len(injured) > 0 {
		tags = append(tags, TagHealth)
	}

	logger.Log.WithFields(logrus.Fields{
		"from":        from.ID,
		"to":          to.ID,
		"interaction": chosen.ID,
		"intensity":   intensity,
	}).Debug("interaction ran")

	return &Outcome{
		InteractionID: chosen.ID,
		Dimension:     dim,
		Positive:      positive,
		Intensity:     intensity,
		Text:          text,
		Tags:          tags,
		CatIDs:        []string{to.ID, from.ID},
		Injured:       injured,
	}, nil
}

func (e *Engine) compatibility(from, to *cat.Cat) cat.Compatibility {
	if e.rules == nil {
		return cat.CompatibilityNeutral
	}
	return e.rules.Compatibility(from, to)
}

func (e *Engine) potentialMates(from, to *cat.Cat) bool {
	if e.rules == nil {
		return false
	}
	return e.rules.IsPotentialMate(from, to) && e.rules.IsPotentialMate(to, from)
}

// rollPolarity draws from a ballot of two positive votes and one negative, plus one positive
// vote for good compatibility and one vote per ten points of like, respect, comfort and trust.
func (e *Engine) rollPolarity(rel *relationship.Relationship, compat cat.Compatibility) bool {
	yes, no := 2, 1
	if compat == cat.CompatibilityPositive {
		yes++
	}
	for _, d := range []relationship.Dimension{relationship.Like, relationship.Respect, relationship.Comfort, relationship.Trust} {
		v := rel.Value(d)
		if v > 0 {
			yes += v / 10
		} else {
			no += -v / 10
		}
	}
	return dice.IntN(e.rng, yes+no) < yes
}

func (e *Engine) rollType(rel *relationship.Relationship, from, to *cat.Cat, positive bool) relationship.Dimension {
	weights := make([]int, len(relationship.Dimensions))
	for i, d := range relationship.Dimensions {
		weights[i] = 1
		v := rel.Value(d)
		if !positive && d == relationship.Romance {
			continue
		}
		if v > 0 {
			weights[i] += v / 10
		}
	}

	romance := slices.Index(relationship.Dimensions, relationship.Romance)
	if rel.Mates {
		weights[romance]++
	}
	if !rel.Mates && !e.potentialMates(from, to) {
		weights[romance] = 0
	}
	if !positive && rel.Romance() == 0 {
		weights[romance] = 0
	}

	return relationship.Dimensions[dice.Weighted(e.rng, weights)]
}

func (e *Engine) filter(list []*SingleInteraction, intensity Intensity, env Environment, from, to *cat.Cat) []*SingleInteraction {
	var out []*SingleInteraction
	for _, inter := range list {
		if inter.Intensity != intensity {
			continue
		}
		if !matchesPlace(inter.Biome, env.Biome) || !matchesPlace(inter.Season, env.Season) {
			continue
		}
		if !inter.Main.Matches(from, []*cat.Cat{to}, e.rels) {
			continue
		}
		if !inter.Random.Matches(to, []*cat.Cat{from}, e.rels) {
			continue
		}
		out = append(out, inter)
	}
	return out
}

// pick avoids recently used interactions while more than two candidates remain,
// and forgets the used set when it still ends up on a used one.
func (e *Engine) pick(candidates []*SingleInteraction) *SingleInteraction {
	pool := slices.Clone(candidates)
	i := dice.IntN(e.rng, len(pool))
	for slices.Contains(e.used, pool[i].ID) && len(pool) > 2 {
		pool = slices.Delete(pool, i, i+1)
		i = dice.IntN(e.rng, len(pool))
	}
	chosen := pool[i]
	if slices.Contains(e.used, chosen.ID) {
		e.used = e.used[:0]
	}
	e.used = append(e.used, chosen.ID)
	return chosen
}

func (e *Engine) amount(positive bool, intensity Intensity, compat cat.Compatibility) int {
	amount := e.cfg.ValueChangeAmount.Amount(string(intensity))
	if !positive {
		amount = -amount
	}
	switch compat {
	case cat.CompatibilityPositive:
		amount += e.cfg.CompatibilityEffect
	case cat.CompatibilityNegative:
		amount -= e.cfg.CompatibilityEffect
	}
	return amount
}

// cascade applies a high intensity change: the chosen dimension gets amount, every other
// non-romance dimension gets amount/div shifted by -1, 0 or +1.
func (e *Engine) cascade(rel *relationship.Relationship, chosen relationship.Dimension, amount int) {
	div := e.cfg.PassiveInfluenceDiv
	if div == 0 {
		div = 1
	}
	passive := amount / div
	if chosen == relationship.Romance {
		_ = rel.Add(relationship.Romance, amount)
	}
	for _, d := range relationship.Passive {
		if d == chosen {
			_ = rel.Add(d, amount)
			continue
		}
		_ = rel.Add(d, passive+dice.IntN(e.rng, 3)-1)
	}
}

// react applies a reaction table with the low intensity amount.
func (e *Engine) react(rel *relationship.Relationship, table map[string]string, compat cat.Compatibility) {
	for _, d := range relationship.Dimensions {
		value, ok := table[string(d)]
		if !ok || value == ReactionNeutral {
			continue
		}
		_ = rel.Add(d, e.amount(value == ReactionIncrease, Low, compat))
	}
}

// grantInjuries applies get_injuries to the cats in roles and records the possible history.
// An injury group name gives one of its members at random.
func grantInjuries(rng *rand.Rand, grants map[string]InjuryGrant, roles map[string]*cat.Cat, names map[string]string) map[string][]string {
	if len(grants) == 0 {
		return nil
	}
	injured := make(map[string][]string)
	keys := make([]string, 0, len(grants))
	for role := range grants {
		keys = append(keys, role)
	}
	slices.Sort(keys)

	for _, role := range keys {
		grant := grants[role]
		target, ok := roles[role]
		if !ok {
			target = roles[RoleRandom]
		}
		if target == nil {
			continue
		}
		var given []string
		for _, choices := range grant.Choices() {
			if len(choices) == 0 {
				continue
			}
			injury := dice.Choice(rng, choices)
			target.GetInjured(injury)
			given = append(given, injury)
		}
		injured[target.ID] = append(injured[target.ID], given...)

		scar := narrate.Render(grant.ScarText, names)
		death := narrate.Render(grant.DeathText, names)
		if target.Status != nil && target.Status.IsLeader() {
			death = narrate.Render(grant.DeathLeaderText, names)
		}
		if scar == "" && death == "" {
			continue
		}
		for _, name := range given {
			target.History.AddPossible(cat.PossibleHistory{Condition: name, ScarText: scar, DeathText: death})
		}
	}
	return injured
}

func names(roles map[string]*cat.Cat) map[string]string {
	out := make(map[string]string, len(roles))
	for role, c := range roles {
		out[role] = displayName(c)
	}
	return out
}

func displayName(c *cat.Cat) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

var postscripts = map[bool]map[Intensity]string{
	true:  {Low: "", Medium: " (positive effect)", High: " (high positive effect)"},
	false: {Low: "", Medium: " (negative effect)", High: " (high negative effect)"},
}

func postscript(positive bool, intensity Intensity) string {
	return postscripts[positive][intensity]
}
