package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"clansim/internal/cat"
)

// Vocabulary is the closed set of names catalog constraints may reference.
type Vocabulary struct {
	Version       int                          `yaml:"version"`
	Traits        []string                     `yaml:"traits"`
	KitTraits     []string                     `yaml:"kit_traits"`
	Backstories   []string                     `yaml:"backstories"`
	Injuries      []string                     `yaml:"injuries"`
	InjuryGroups  map[string][]string          `yaml:"injury_groups"`
	Herbs         []string                     `yaml:"herbs"`
	Accessories   AccessoryGroups              `yaml:"accessories"`
	Compatibility map[string]cat.TraitAffinity `yaml:"compatibility"`

	traitIndex     map[string]struct{}
	backstoryIndex map[string]struct{}
	injuryIndex    map[string]struct{}
	herbIndex      map[string]struct{}
}

type AccessoryGroups struct {
	Wild   []string `yaml:"wild"`
	Plant  []string `yaml:"plant"`
	Collar []string `yaml:"collar"`
	Head   []string `yaml:"head"`
	Tail   []string `yaml:"tail"`
	Body   []string `yaml:"body"`
}

func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading vocabulary: %w", err)
	}

	var vocab Vocabulary
	if err := yaml.Unmarshal(data, &vocab); err != nil {
		return nil, fmt.Errorf("loading vocabulary: %w", err)
	}

	if err := validateVocabulary(&vocab); err != nil {
		return nil, fmt.Errorf("loading vocabulary: %w", err)
	}

	vocab.index()
	return &vocab, nil
}

func validateVocabulary(v *Vocabulary) error {
	if v.Version != 1 {
		return fmt.Errorf("unsupported version: %d", v.Version)
	}
	if len(v.Traits) == 0 {
		return fmt.Errorf("at least one trait is required")
	}

	lists := map[string][]string{
		"trait":     append(append([]string{}, v.Traits...), v.KitTraits...),
		"backstory": v.Backstories,
		"injury":    v.Injuries,
		"herb":      v.Herbs,
	}
	for kind, values := range lists {
		seen := make(map[string]struct{})
		for i, value := range values {
			if strings.TrimSpace(value) == "" {
				return fmt.Errorf("%s %d is empty", kind, i)
			}
			if _, exists := seen[value]; exists {
				return fmt.Errorf("duplicate %s: %s", kind, value)
			}
			seen[value] = struct{}{}
		}
	}

	injuries := make(map[string]struct{}, len(v.Injuries))
	for _, injury := range v.Injuries {
		injuries[injury] = struct{}{}
	}
	for group, members := range v.InjuryGroups {
		if len(members) == 0 {
			return fmt.Errorf("injury group %s has no injuries", group)
		}
		for _, member := range members {
			if _, ok := injuries[member]; !ok {
				return fmt.Errorf("injury group %s references unknown injury: %s", group, member)
			}
		}
	}

	return nil
}

func (v *Vocabulary) index() {
	v.traitIndex = toSet(v.Traits, v.KitTraits)
	v.backstoryIndex = toSet(v.Backstories)
	v.injuryIndex = toSet(v.Injuries)
	v.herbIndex = toSet(v.Herbs)
}

func toSet(lists ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, value := range list {
			set[value] = struct{}{}
		}
	}
	return set
}

func (v *Vocabulary) IsTrait(name string) bool {
	if v == nil {
		return false
	}
	_, ok := v.traitIndex[name]
	return ok
}

func (v *Vocabulary) IsBackstory(name string) bool {
	if v == nil {
		return false
	}
	_, ok := v.backstoryIndex[name]
	return ok
}

// IsInjury accepts single injuries and injury group names.
func (v *Vocabulary) IsInjury(name string) bool {
	if v == nil {
		return false
	}
	if _, ok := v.injuryIndex[name]; ok {
		return true
	}
	_, ok := v.InjuryGroups[name]
	return ok
}

func (v *Vocabulary) IsHerb(name string) bool {
	if v == nil {
		return false
	}
	_, ok := v.herbIndex[name]
	return ok
}

// NumTraits counts adult and kit traits, the denominator used for event specificity.
func (v *Vocabulary) NumTraits() int {
	if v == nil {
		return 0
	}
	return len(v.Traits) + len(v.KitTraits)
}

// ExpandInjuries replaces injury group names with their members.
func (v *Vocabulary) ExpandInjuries(names []string) []string {
	if v == nil {
		return slices.Clone(names)
	}
	var out []string
	for _, name := range names {
		if members, ok := v.InjuryGroups[name]; ok {
			out = append(out, members...)
			continue
		}
		out = append(out, name)
	}
	return out
}

// DefaultVocabulary is used when no vocabulary file is configured.
func DefaultVocabulary() *Vocabulary {
	v := &Vocabulary{
		Version: 1,
		Traits: []string{
			"adventurous", "altruistic", "ambitious", "bloodthirsty", "bold", "calm", "careful",
			"charismatic", "childish", "cold", "compassionate", "confident", "daring", "faithful",
			"fierce", "insecure", "lonesome", "loyal", "nervous", "playful", "responsible",
			"righteous", "shameless", "sneaky", "strange", "strict", "thoughtful", "troublesome",
			"vengeful", "wise",
		},
		KitTraits: []string{
			"attention-seeker", "bossy", "bouncy", "bullying", "charming", "daring kit", "impulsive",
			"inquisitive", "quiet", "self-conscious", "shy", "sweet", "timid", "trusting",
		},
		Backstories: []string{
			"clan_founder", "clanborn", "halfclan1", "outsider_roots1", "loner1", "rogue1",
			"kittypet1", "abandoned1", "refugee1", "tragedy_survivor1", "wandering_healer1",
			"orphaned1", "reformed_rogue", "disgraced1", "retired_leader", "medicine_cat",
			"otherclan1", "ostracized_warrior", "guided1",
		},
		Injuries: []string{
			"claw-wound", "mangled leg", "mangled tail", "torn pelt", "cat bite", "sprain", "sore",
			"bruises", "scrapes", "broken bone", "broken back", "head damage", "broken jaw",
			"heat exhaustion", "heat stroke", "dehydrated", "shivering", "frostbite", "bite-wound",
			"torn ear", "beak bite", "rat bite", "greencough", "redcough", "whitecough",
			"yellowcough", "recovering from birth", "small cut", "poisoned",
		},
		InjuryGroups: map[string][]string{
			"battle_injury":      {"claw-wound", "mangled leg", "mangled tail", "torn pelt", "cat bite"},
			"minor_injury":       {"sprain", "sore", "bruises", "scrapes"},
			"blunt_force_injury": {"broken bone", "broken back", "head damage", "broken jaw"},
			"hot_injury":         {"heat exhaustion", "heat stroke", "dehydrated"},
			"cold_injury":        {"shivering", "frostbite"},
			"big_bite_injury":    {"bite-wound", "broken bone", "torn pelt", "mangled leg", "mangled tail"},
			"small_bite_injury":  {"bite-wound", "torn ear", "torn pelt", "scrapes"},
			"beak_bite":          {"beak bite", "torn ear", "scrapes"},
			"rat_bite":           {"rat bite", "torn ear", "torn pelt"},
			"sickness":           {"greencough", "redcough", "whitecough", "yellowcough"},
		},
		Herbs: []string{
			"blackberry", "burdock", "catmint", "cobwebs", "daisy", "dandelion", "goldenrod",
			"horsetail", "juniper", "lungwort", "marigold", "moss", "oak_leaves", "poppy",
			"raspberry", "tansy", "thyme", "yarrow",
		},
		Accessories: AccessoryGroups{
			Wild:   []string{"RED FEATHERS", "BLUE FEATHERS", "JAY FEATHERS", "GULL FEATHERS", "SPARROW FEATHERS", "MOTH WINGS", "CICADA WINGS"},
			Plant:  []string{"MAPLE LEAF", "HOLLY", "BLUE BERRIES", "FORGET ME NOTS", "RYE STALK", "LAUREL", "BLUEBELLS", "NETTLE", "POPPY", "LAVENDER", "HERBS", "PETALS", "DRY HERBS", "OAK LEAVES", "CATMINT", "MAPLE SEED", "JUNIPER"},
			Collar: []string{"CRIMSON", "BLUE", "YELLOW", "CYAN", "RED", "LIME", "GREEN", "RAINBOW", "BLACK", "SPIKES", "WHITE", "PINK", "PURPLE", "MULTI"},
			Head:   []string{"MAPLE LEAF", "HOLLY", "BLUE BERRIES", "FORGET ME NOTS", "RYE STALK", "LAUREL", "RED FEATHERS", "BLUE FEATHERS", "JAY FEATHERS", "MOTH WINGS", "CICADA WINGS"},
			Tail:   []string{"BLUEBELLS", "NETTLE", "POPPY", "LAVENDER", "GULL FEATHERS", "SPARROW FEATHERS"},
			Body:   []string{"HERBS", "PETALS", "DRY HERBS", "OAK LEAVES", "CATMINT", "MAPLE SEED", "JUNIPER"},
		},
		Compatibility: map[string]cat.TraitAffinity{
			"loyal":         {Positive: []string{"faithful", "responsible", "righteous"}, Negative: []string{"sneaky", "shameless"}},
			"calm":          {Positive: []string{"wise", "thoughtful", "careful"}, Negative: []string{"troublesome", "fierce"}},
			"bold":          {Positive: []string{"daring", "adventurous", "confident"}, Negative: []string{"nervous", "insecure"}},
			"compassionate": {Positive: []string{"altruistic", "wise"}, Negative: []string{"cold", "bloodthirsty"}},
			"playful":       {Positive: []string{"childish", "adventurous"}, Negative: []string{"strict", "cold"}},
			"strict":        {Positive: []string{"responsible", "righteous"}, Negative: []string{"troublesome", "playful"}},
			"ambitious":     {Positive: []string{"confident", "charismatic"}, Negative: []string{"lonesome", "careful"}},
			"cold":          {Positive: []string{"lonesome"}, Negative: []string{"compassionate", "playful"}},
		},
	}
	v.index()
	return v
}
