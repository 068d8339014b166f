package event

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"clansim/internal/cat"
	"clansim/internal/dice"
	"clansim/internal/status"
)

// newCatSpec is one parsed new_cat attribute list.
type newCatSpec struct {
	name      string
	gender    string
	social    status.Social
	rank      status.Rank
	age       status.Age
	backstory []string
	parents   []string
	mates     []string
	meeting   bool
	litter    bool
	dead      bool
}

// parseNewCat reads attributes such as "female", "loner", "meeting", "litter", "dead",
// "age:kitten", "status:warrior", "backstory:loner1", "parent:m_c", "mate:r_c" and "name:Reed".
func parseNewCat(attrs []string) (newCatSpec, error) {
	var spec newCatSpec
	for _, attr := range attrs {
		key, value, hasValue := strings.Cut(attr, ":")
		if hasValue {
			switch key {
			case "age":
				spec.age = status.Age(value)
				if !spec.age.Valid() {
					return spec, fmt.Errorf("unknown age %q", value)
				}
			case "status":
				spec.rank = status.Rank(value)
				if !spec.rank.Valid() {
					return spec, fmt.Errorf("unknown status %q", value)
				}
			case "backstory":
				spec.backstory = strings.Split(value, ",")
			case "parent":
				spec.parents = strings.Split(value, ",")
				if len(spec.parents) > 2 {
					return spec, fmt.Errorf("more than two parents")
				}
			case "mate":
				spec.mates = strings.Split(value, ",")
			case "name":
				spec.name = value
			default:
				return spec, fmt.Errorf("unknown attribute %q", attr)
			}
			continue
		}

		switch attr {
		case "male", "female":
			spec.gender = attr
		case "kittypet", "loner", "rogue", "clancat":
			spec.social = status.Social(attr)
		case "meeting":
			spec.meeting = true
		case "litter":
			spec.litter = true
		case "dead":
			spec.dead = true
		case "new_name", "old_name":
		default:
			return spec, fmt.Errorf("unknown attribute %q", attr)
		}
	}
	return spec, nil
}

var ageMoons = map[status.Age][2]int{
	status.AgeNewborn:     {0, 0},
	status.AgeKitten:      {1, 5},
	status.AgeAdolescent:  {6, 11},
	status.AgeYoungAdult:  {12, 47},
	status.AgeAdult:       {48, 95},
	status.AgeSeniorAdult: {96, 119},
	status.AgeSenior:      {120, 150},
}

var (
	namePrefixes = []string{"Ash", "Bramble", "Cinder", "Dust", "Fern", "Hazel", "Moss", "Rain", "Sorrel", "Thistle", "Reed", "Pebble"}
	nameSuffixes = []string{"fur", "pelt", "tail", "claw", "leaf", "whisker", "heart", "stripe", "foot", "fall"}
)

func randomName(rng *rand.Rand, age status.Age) string {
	prefix := dice.Choice(rng, namePrefixes)
	switch age {
	case status.AgeNewborn, status.AgeKitten:
		return prefix + "kit"
	case status.AgeAdolescent:
		return prefix + "paw"
	}
	return prefix + dice.Choice(rng, nameSuffixes)
}

// build creates the cats for one new_cat entry. A litter yields two to four kits; anything else one cat.
// Parent and mate roles are resolved through lookup.
func (spec newCatSpec) build(rng *rand.Rand, lookup func(role string) *cat.Cat) ([]*cat.Cat, error) {
	count := 1
	age := spec.age
	if spec.litter {
		count = dice.Between(rng, 2, 4)
		if age == "" {
			age = status.AgeNewborn
		}
	}
	if age == "" {
		age = dice.Choice(rng, []status.Age{status.AgeYoungAdult, status.AgeAdult})
	}
	span := ageMoons[age]
	moons := dice.Between(rng, span[0], span[1])

	opts := status.Options{Age: age, Rank: spec.rank, Rand: rng}
	if spec.meeting {
		opts.Social = spec.social
		if opts.Social == "" || opts.Social == status.SocialClancat {
			opts.Social = status.SocialLoner
		}
		opts.Rank = ""
	} else {
		opts.Social = status.SocialClancat
		opts.GroupID = status.HomeClanID
		if spec.rank != "" && !spec.rank.IsClanRank() {
			opts.Rank = ""
		}
	}

	var parents []string
	for _, role := range spec.parents {
		if p := lookup(role); p != nil {
			parents = append(parents, p.ID)
		}
	}

	out := make([]*cat.Cat, 0, count)
	for range count {
		rec, err := status.New(opts)
		if err != nil {
			return nil, err
		}
		gender := spec.gender
		if gender == "" {
			gender = dice.Choice(rng, []string{"male", "female"})
		}
		name := spec.name
		if name == "" || count > 1 {
			name = randomName(rng, age)
		}
		c := &cat.Cat{
			ID:          cat.NewID(),
			Name:        name,
			Moons:       moons,
			Gender:      gender,
			GenderAlign: gender,
			Status:      rec,
		}
		if len(spec.backstory) > 0 {
			c.Backstory = dice.Choice(rng, spec.backstory)
		}
		if len(parents) > 0 {
			c.Parent1 = parents[0]
		}
		if len(parents) > 1 {
			c.Parent2 = parents[1]
		}
		for _, role := range spec.mates {
			if m := lookup(role); m != nil {
				c.Mates = append(c.Mates, m.ID)
				m.Mates = append(m.Mates, c.ID)
			}
		}
		if spec.dead {
			c.Die(true)
		}
		out = append(out, c)
	}
	return out, nil
}
