// Package interaction holds the pairwise and group interaction catalogs and the
// engine that applies them to the relationship ledger.
package interaction

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"clansim/internal/config"
	"clansim/internal/constraint"
	"clansim/internal/relationship"
)

type Polarity string

const (
	Increase Polarity = "increase"
	Decrease Polarity = "decrease"
)

func PolarityOf(positive bool) Polarity {
	if positive {
		return Increase
	}
	return Decrease
}

type Intensity string

const (
	Low    Intensity = "low"
	Medium Intensity = "medium"
	High   Intensity = "high"
)

var (
	Intensities      = []Intensity{Low, Medium, High}
	intensityWeights = []int{4, 3, 2}
)

func (i Intensity) Valid() bool { return slices.Contains(Intensities, i) }

// Role abbreviations used as keys in catalog tables.
const (
	RoleMain   = "m_c"
	RoleRandom = "r_c"
)

// Reaction values in also_influences, reaction_random_cat and group reaction tables.
const (
	ReactionIncrease = "increase"
	ReactionDecrease = "decrease"
	ReactionNeutral  = "neutral"
)

// InjuryGrant is one role's entry in get_injuries.
type InjuryGrant struct {
	InjuryNames     []string `yaml:"injury_names"`
	ScarText        string   `yaml:"scar_text"`
	DeathText       string   `yaml:"death_text"`
	DeathLeaderText string   `yaml:"death_leader_text"`

	// choices holds, per injury name, the injuries it can turn into: the name itself or
	// the members of the injury group it names.
	choices [][]string
}

// Choices returns the candidate injuries for each entry of InjuryNames.
func (g InjuryGrant) Choices() [][]string {
	if len(g.choices) == len(g.InjuryNames) {
		return g.choices
	}
	out := make([][]string, len(g.InjuryNames))
	for i, name := range g.InjuryNames {
		out[i] = []string{name}
	}
	return out
}

// SingleInteraction is a two-cat interaction definition.
type SingleInteraction struct {
	ID                     string                 `yaml:"id"`
	Biome                  []string               `yaml:"biome"`
	Season                 []string               `yaml:"season"`
	Intensity              Intensity              `yaml:"intensity"`
	Interactions           []string               `yaml:"interactions"`
	GetInjuries            map[string]InjuryGrant `yaml:"get_injuries"`
	HasInjuries            map[string][]string    `yaml:"has_injuries"`
	RelationshipConstraint []string               `yaml:"relationship_constraint"`
	BackstoryConstraint    map[string][]string    `yaml:"backstory_constraint"`
	MainStatusConstraint   []string               `yaml:"main_status_constraint"`
	RandomStatusConstraint []string               `yaml:"random_status_constraint"`
	MainTraitConstraint    []string               `yaml:"main_trait_constraint"`
	RandomTraitConstraint  []string               `yaml:"random_trait_constraint"`
	MainSkillConstraint    []string               `yaml:"main_skill_constraint"`
	RandomSkillConstraint  []string               `yaml:"random_skill_constraint"`
	ReactionRandomCat      map[string]string      `yaml:"reaction_random_cat"`
	AlsoInfluences         map[string]string      `yaml:"also_influences"`

	// Main and Random are built from the flat constraint fields by Compile.
	Main   constraint.Spec `yaml:"-"`
	Random constraint.Spec `yaml:"-"`
}

// Compile fills defaults and validates every name against vocab.
func (s *SingleInteraction) Compile(vocab constraint.Vocabulary) error {
	if s.ID == "" {
		return fmt.Errorf("interaction without id")
	}
	s.Biome = withDefault(s.Biome)
	s.Season = withDefault(s.Season)
	if s.Intensity == "" {
		s.Intensity = Medium
	}
	if !s.Intensity.Valid() {
		return fmt.Errorf("interaction %s: unknown intensity %q", s.ID, s.Intensity)
	}
	if err := checkPlaces(s.Biome, s.Season); err != nil {
		return fmt.Errorf("interaction %s: %w", s.ID, err)
	}
	if len(s.Interactions) == 0 {
		s.Interactions = []string{fmt.Sprintf("m_c and r_c interact (%s).", s.ID)}
	}

	for role := range s.BackstoryConstraint {
		if role != RoleMain && role != RoleRandom {
			return fmt.Errorf("interaction %s: unknown role %q in backstory_constraint", s.ID, role)
		}
	}
	if err := checkInjuryTables(s.GetInjuries, s.HasInjuries, []string{RoleMain, RoleRandom}, vocab); err != nil {
		return fmt.Errorf("interaction %s: %w", s.ID, err)
	}
	for _, table := range []map[string]string{s.ReactionRandomCat, s.AlsoInfluences} {
		if err := checkReactions(table); err != nil {
			return fmt.Errorf("interaction %s: %w", s.ID, err)
		}
	}

	s.Main = constraint.Spec{
		Status:             s.MainStatusConstraint,
		Trait:              s.MainTraitConstraint,
		Skill:              s.MainSkillConstraint,
		Backstory:          s.BackstoryConstraint[RoleMain],
		RelationshipStatus: s.RelationshipConstraint,
		Injuries:           s.HasInjuries[RoleMain],
	}
	s.Random = constraint.Spec{
		Status:    s.RandomStatusConstraint,
		Trait:     s.RandomTraitConstraint,
		Skill:     s.RandomSkillConstraint,
		Backstory: s.BackstoryConstraint[RoleRandom],
		Injuries:  s.HasInjuries[RoleRandom],
	}
	if err := s.Main.Compile(vocab); err != nil {
		return fmt.Errorf("interaction %s: m_c: %w", s.ID, err)
	}
	if err := s.Random.Compile(vocab); err != nil {
		return fmt.Errorf("interaction %s: r_c: %w", s.ID, err)
	}
	return nil
}

// GroupInteraction is an interaction between cat_amount cats, with role keys m_c, r_c1, r_c2...
type GroupInteraction struct {
	ID                     string                       `yaml:"id"`
	Biome                  []string                     `yaml:"biome"`
	Season                 []string                     `yaml:"season"`
	Intensity              Intensity                    `yaml:"intensity"`
	CatAmount              int                          `yaml:"cat_amount"`
	Interactions           []string                     `yaml:"interactions"`
	GetInjuries            map[string]InjuryGrant       `yaml:"get_injuries"`
	HasInjuries            map[string][]string          `yaml:"has_injuries"`
	StatusConstraint       map[string][]string          `yaml:"status_constraint"`
	TraitConstraint        map[string][]string          `yaml:"trait_constraint"`
	SkillConstraint        map[string][]string          `yaml:"skill_constraint"`
	BackstoryConstraint    map[string][]string          `yaml:"backstory_constraint"`
	RelationshipConstraint map[string][]string          `yaml:"relationship_constraint"`
	SpecificReaction       map[string]map[string]string `yaml:"specific_reaction"`
	GeneralReaction        map[string]string            `yaml:"general_reaction"`

	roles []string
	specs map[string]*constraint.Spec
	pairs map[[2]string]*constraint.Spec
}

// Roles lists the role keys in order, m_c first.
func (g *GroupInteraction) Roles() []string { return g.roles }

func (g *GroupInteraction) Compile(vocab constraint.Vocabulary) error {
	if g.ID == "" {
		return fmt.Errorf("group interaction without id")
	}
	if g.CatAmount == 0 {
		g.CatAmount = 3
	}
	if g.CatAmount < 3 {
		return fmt.Errorf("group interaction %s: cat_amount must be at least 3, got %d", g.ID, g.CatAmount)
	}
	g.Biome = withDefault(g.Biome)
	g.Season = withDefault(g.Season)
	if g.Intensity == "" {
		g.Intensity = Medium
	}
	if !g.Intensity.Valid() {
		return fmt.Errorf("group interaction %s: unknown intensity %q", g.ID, g.Intensity)
	}
	if err := checkPlaces(g.Biome, g.Season); err != nil {
		return fmt.Errorf("group interaction %s: %w", g.ID, err)
	}
	if len(g.Interactions) == 0 {
		g.Interactions = []string{fmt.Sprintf("m_c and the others interact (%s).", g.ID)}
	}

	g.roles = []string{RoleMain}
	for i := 1; i < g.CatAmount; i++ {
		g.roles = append(g.roles, RoleRandom+strconv.Itoa(i))
	}

	if err := checkInjuryTables(g.GetInjuries, g.HasInjuries, g.roles, vocab); err != nil {
		return fmt.Errorf("group interaction %s: %w", g.ID, err)
	}

	g.specs = make(map[string]*constraint.Spec, len(g.roles))
	for _, role := range g.roles {
		g.specs[role] = &constraint.Spec{
			Status:    g.StatusConstraint[role],
			Trait:     g.TraitConstraint[role],
			Skill:     g.SkillConstraint[role],
			Backstory: g.BackstoryConstraint[role],
			Injuries:  g.HasInjuries[role],
		}
	}
	for _, table := range []map[string][]string{g.StatusConstraint, g.TraitConstraint, g.SkillConstraint, g.BackstoryConstraint} {
		for role := range table {
			if _, ok := g.specs[role]; !ok {
				return fmt.Errorf("group interaction %s: unknown role %q", g.ID, role)
			}
		}
	}
	for role, spec := range g.specs {
		if err := spec.Compile(vocab); err != nil {
			return fmt.Errorf("group interaction %s: %s: %w", g.ID, role, err)
		}
	}

	g.pairs = make(map[[2]string]*constraint.Spec, len(g.RelationshipConstraint))
	for key, tags := range g.RelationshipConstraint {
		pair, err := g.parsePair(key)
		if err != nil {
			return err
		}
		spec := &constraint.Spec{RelationshipStatus: tags}
		if err := spec.Compile(vocab); err != nil {
			return fmt.Errorf("group interaction %s: %s: %w", g.ID, key, err)
		}
		g.pairs[pair] = spec
	}
	for key, table := range g.SpecificReaction {
		if _, err := g.parsePair(key); err != nil {
			return err
		}
		if err := checkReactions(table); err != nil {
			return fmt.Errorf("group interaction %s: %w", g.ID, err)
		}
	}
	if err := checkReactions(g.GeneralReaction); err != nil {
		return fmt.Errorf("group interaction %s: %w", g.ID, err)
	}
	return nil
}

// parsePair splits "m_c_to_r_c1" into its two roles.
func (g *GroupInteraction) parsePair(key string) ([2]string, error) {
	from, to, ok := strings.Cut(key, "_to_")
	if !ok || !slices.Contains(g.roles, from) || !slices.Contains(g.roles, to) || from == to {
		return [2]string{}, fmt.Errorf("group interaction %s: invalid role pair %q", g.ID, key)
	}
	return [2]string{from, to}, nil
}

// Catalog is every loaded interaction, single ones keyed by dimension and polarity.
type Catalog struct {
	Single map[relationship.Dimension]map[Polarity][]*SingleInteraction
	Group  []*GroupInteraction
}

func NewCatalog() *Catalog {
	c := &Catalog{Single: make(map[relationship.Dimension]map[Polarity][]*SingleInteraction)}
	for _, d := range relationship.Dimensions {
		c.Single[d] = map[Polarity][]*SingleInteraction{}
	}
	return c
}

// Add compiles and files an interaction under (dimension, polarity).
func (c *Catalog) Add(d relationship.Dimension, p Polarity, inter *SingleInteraction, vocab constraint.Vocabulary) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %s", relationship.ErrUnknownDimension, d)
	}
	if err := inter.Compile(vocab); err != nil {
		return err
	}
	c.Single[d][p] = append(c.Single[d][p], inter)
	return nil
}

func (c *Catalog) AddGroup(inter *GroupInteraction, vocab constraint.Vocabulary) error {
	if err := inter.Compile(vocab); err != nil {
		return err
	}
	c.Group = append(c.Group, inter)
	return nil
}

// Len counts single and group interactions.
func (c *Catalog) Len() int {
	n := len(c.Group)
	for _, byPolarity := range c.Single {
		for _, list := range byPolarity {
			n += len(list)
		}
	}
	return n
}

func withDefault(values []string) []string {
	if len(values) == 0 {
		return []string{constraint.Any}
	}
	return values
}

// matchesPlace treats "any" as a wildcard and compares biomes case-insensitively.
func matchesPlace(allowed []string, value string) bool {
	for _, a := range allowed {
		if a == constraint.Any || strings.EqualFold(a, value) {
			return true
		}
	}
	return false
}

func checkPlaces(biomes, seasons []string) error {
	for _, b := range biomes {
		if b != constraint.Any && !slices.ContainsFunc(config.Biomes, func(known string) bool { return strings.EqualFold(known, b) }) {
			return fmt.Errorf("%w: biome %q", constraint.ErrUnknownValue, b)
		}
	}
	for _, s := range seasons {
		if s != constraint.Any && !slices.ContainsFunc(config.Seasons, func(known string) bool { return strings.EqualFold(known, s) }) {
			return fmt.Errorf("%w: season %q", constraint.ErrUnknownValue, s)
		}
	}
	return nil
}

func checkReactions(table map[string]string) error {
	for key, value := range table {
		if !relationship.Dimension(key).Valid() {
			return fmt.Errorf("%w: %s", relationship.ErrUnknownDimension, key)
		}
		switch value {
		case ReactionIncrease, ReactionDecrease, ReactionNeutral:
		default:
			return fmt.Errorf("%w: reaction %q", constraint.ErrUnknownValue, value)
		}
	}
	return nil
}

func checkInjuryTables(grants map[string]InjuryGrant, has map[string][]string, roles []string, vocab constraint.Vocabulary) error {
	for role, grant := range grants {
		if !slices.Contains(roles, role) {
			return fmt.Errorf("unknown role %q in get_injuries", role)
		}
		if len(grant.InjuryNames) == 0 {
			return fmt.Errorf("get_injuries for %s has no injury_names", role)
		}
		if vocab == nil {
			continue
		}
		grant.choices = make([][]string, 0, len(grant.InjuryNames))
		for _, name := range grant.InjuryNames {
			if !vocab.IsInjury(name) {
				return fmt.Errorf("%w: injury %q", constraint.ErrUnknownValue, name)
			}
			grant.choices = append(grant.choices, vocab.ExpandInjuries([]string{name}))
		}
		grants[role] = grant
	}
	for role := range has {
		if !slices.Contains(roles, role) {
			return fmt.Errorf("unknown role %q in has_injuries", role)
		}
	}
	return nil
}
