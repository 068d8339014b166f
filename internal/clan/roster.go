package clan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"clansim/internal/cat"
	"clansim/internal/config"
	"clansim/internal/relationship"
	"clansim/internal/status"
)

// Roster is the on-disk starting state of a clan.
type Roster struct {
	LeaderLives   int                     `yaml:"leader_lives"`
	OtherClans    []*OtherClan            `yaml:"other_clans"`
	War           War                     `yaml:"war"`
	Freshkill     FreshkillPile           `yaml:"freshkill"`
	Herbs         map[string]int          `yaml:"herbs"`
	Cats          []RosterCat             `yaml:"cats"`
	Relationships []relationship.Snapshot `yaml:"relationships"`
}

type RosterCat struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Moons       int           `yaml:"moons"`
	Gender      string        `yaml:"gender"`
	GenderAlign string        `yaml:"gender_align"`
	Trait       string        `yaml:"trait"`
	Backstory   string        `yaml:"backstory"`
	Rank        status.Rank   `yaml:"rank"`
	Social      status.Social `yaml:"social"`
	Group       string        `yaml:"group"`
	Skills      cat.SkillSet  `yaml:"skills"`
	Parents     []string      `yaml:"parents"`
	Mates       []string      `yaml:"mates"`
	Injuries    []string      `yaml:"injuries"`
	Scars       []string      `yaml:"scars"`
	Accessories []string      `yaml:"accessories"`
}

// LoadRoster reads a roster file into a clan built from cfg. Names are checked against vocab.
func LoadRoster(path string, cfg config.ClanConfig, vocab *config.Vocabulary) (*Clan, []relationship.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading roster: %w", err)
	}

	var roster Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, nil, fmt.Errorf("loading roster: %w", err)
	}

	c, err := roster.Build(cfg, vocab)
	if err != nil {
		return nil, nil, fmt.Errorf("loading roster: %w", err)
	}
	return c, roster.Relationships, nil
}

// Build turns the roster into a clan.
func (r *Roster) Build(cfg config.ClanConfig, vocab *config.Vocabulary) (*Clan, error) {
	c := New(cfg)
	c.OtherClans = r.OtherClans
	c.War = r.War
	c.Freshkill = r.Freshkill
	if r.LeaderLives > 0 {
		c.LeaderLives = r.LeaderLives
	}
	for herb, stock := range r.Herbs {
		if vocab != nil && !vocab.IsHerb(herb) {
			return nil, fmt.Errorf("unknown herb: %s", herb)
		}
		c.Herbs[herb] = stock
	}
	if c.War.AtWar {
		if _, ok := c.OtherClan(c.War.Enemy); !ok {
			return nil, fmt.Errorf("war enemy %q is not a known clan", c.War.Enemy)
		}
	}

	for i, rc := range r.Cats {
		member, err := rc.build(vocab)
		if err != nil {
			return nil, fmt.Errorf("cat %d (%s): %w", i, rc.Name, err)
		}
		if err := c.Add(member); err != nil {
			return nil, err
		}
	}

	for _, member := range c.All() {
		for _, id := range append([]string{member.Parent1, member.Parent2}, member.Mates...) {
			if id == "" {
				continue
			}
			if _, ok := c.Get(id); !ok {
				return nil, fmt.Errorf("cat %s references unknown cat %s", member.ID, id)
			}
		}
	}
	return c, nil
}

func (rc RosterCat) build(vocab *config.Vocabulary) (*cat.Cat, error) {
	if vocab != nil {
		if rc.Trait != "" && !vocab.IsTrait(rc.Trait) {
			return nil, fmt.Errorf("unknown trait: %s", rc.Trait)
		}
		if rc.Backstory != "" && !vocab.IsBackstory(rc.Backstory) {
			return nil, fmt.Errorf("unknown backstory: %s", rc.Backstory)
		}
		for _, injury := range rc.Injuries {
			if !vocab.IsInjury(injury) {
				return nil, fmt.Errorf("unknown injury: %s", injury)
			}
		}
	}
	for _, skill := range []*cat.Skill{rc.Skills.Primary, rc.Skills.Secondary} {
		if skill != nil && (!skill.Path.Valid() || skill.Tier < 1 || skill.Tier > cat.MaxSkillTier) {
			return nil, fmt.Errorf("invalid skill: %s,%d", skill.Path, skill.Tier)
		}
	}
	if len(rc.Parents) > 2 {
		return nil, fmt.Errorf("more than two parents")
	}

	rec, err := status.New(status.Options{
		Age:           status.AgeForMoons(rc.Moons),
		Rank:          rc.Rank,
		Social:        rc.Social,
		GroupID:       rc.Group,
		Deterministic: true,
	})
	if err != nil {
		return nil, err
	}

	align := rc.GenderAlign
	if align == "" {
		align = rc.Gender
	}
	member := &cat.Cat{
		ID:          rc.ID,
		Name:        rc.Name,
		Moons:       rc.Moons,
		Gender:      rc.Gender,
		GenderAlign: align,
		Trait:       rc.Trait,
		Backstory:   rc.Backstory,
		Skills:      rc.Skills,
		Status:      rec,
		Injuries:    rc.Injuries,
		Scars:       rc.Scars,
		Accessories: rc.Accessories,
		Mates:       rc.Mates,
	}
	if len(rc.Parents) > 0 {
		member.Parent1 = rc.Parents[0]
	}
	if len(rc.Parents) > 1 {
		member.Parent2 = rc.Parents[1]
	}
	return member, nil
}
