package interaction

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"clansim/internal/cat"
	"clansim/internal/dice"
	"clansim/internal/logger"
	"clansim/internal/narrate"
)

// RunGroup plays a group interaction led by main, drawing the other roles from pool.
// Like Run, it returns nil with no error when nothing could be played.
func (e *Engine) RunGroup(main *cat.Cat, pool []*cat.Cat, env Environment) (*Outcome, error) {
	if !main.AliveInHomeClan() {
		return nil, nil
	}
	var others []*cat.Cat
	for _, c := range pool {
		if c.AliveInHomeClan() && c.ID != main.ID {
			others = append(others, c)
		}
	}

	catalog, err := e.source.Catalog()
	if err != nil {
		return nil, fmt.Errorf("running group interaction: %w", err)
	}

	intensity := Intensities[dice.Weighted(e.rng, intensityWeights)]
	var candidates []*GroupInteraction
	for _, inter := range catalog.Group {
		if inter.Intensity != intensity || inter.CatAmount-1 > len(others) {
			continue
		}
		if !matchesPlace(inter.Biome, env.Biome) || !matchesPlace(inter.Season, env.Season) {
			continue
		}
		candidates = append(candidates, inter)
	}

	// Candidates are tried in random order, recently used ones only on the second pass.
	order := shuffled(e, len(candidates))
	for pass := 0; pass < 2; pass++ {
		for _, i := range order {
			inter := candidates[i]
			used := slices.Contains(e.used, inter.ID)
			if pass == 0 && used && len(candidates) > 2 || pass == 1 && !used {
				continue
			}
			roles, ok := e.castRoles(inter, main, others)
			if !ok {
				continue
			}
			if used {
				e.used = e.used[:0]
			}
			e.used = append(e.used, inter.ID)
			return e.applyGroup(inter, roles, intensity), nil
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"main":      main.ID,
		"intensity": intensity,
		"pool":      len(others),
	}).Warn("no group interaction with these conditions")
	return nil, nil
}

func shuffled(e *Engine, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return dice.Sample(e.rng, idx, n)
}

// castRoles binds m_c to main and fills r_c1.. from others so every role and pair constraint holds.
func (e *Engine) castRoles(inter *GroupInteraction, main *cat.Cat, others []*cat.Cat) (map[string]*cat.Cat, bool) {
	if !inter.specs[RoleMain].Matches(main, nil, e.rels) {
		return nil, false
	}
	roles := map[string]*cat.Cat{RoleMain: main}
	remaining := dice.Sample(e.rng, others, len(others))

	for _, role := range inter.roles[1:] {
		found := -1
		for i, c := range remaining {
			if inter.specs[role].Matches(c, nil, e.rels) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, false
		}
		roles[role] = remaining[found]
		remaining = slices.Delete(remaining, found, found+1)
	}

	for pair, spec := range inter.pairs {
		if !spec.Matches(roles[pair[0]], []*cat.Cat{roles[pair[1]]}, e.rels) {
			return nil, false
		}
	}
	return roles, true
}

func (e *Engine) applyGroup(inter *GroupInteraction, roles map[string]*cat.Cat, intensity Intensity) *Outcome {
	specific := make(map[[2]string]map[string]string, len(inter.SpecificReaction))
	for key, table := range inter.SpecificReaction {
		pair, _ := inter.parsePair(key)
		specific[pair] = table
	}

	roleNames := names(roles)
	text := narrate.Render(dice.Choice(e.rng, inter.Interactions), roleNames)

	for _, from := range inter.roles {
		for _, to := range inter.roles {
			if from == to {
				continue
			}
			table, ok := specific[[2]string{from, to}]
			if !ok {
				table = inter.GeneralReaction
			}
			if len(table) == 0 {
				continue
			}
			rel, _ := e.rels.Link(roles[from].ID, roles[to].ID)
			e.react(rel, table, e.compatibility(roles[from], roles[to]))
			rel.AppendLog(text)
		}
	}

	injured := grantInjuries(e.rng, inter.GetInjuries, roles, roleNames)
	tags := []string{TagRelation, TagInteraction}
	if len(injured) > 0 {
		tags = append(tags, TagHealth)
	}

	ids := make([]string, 0, len(inter.roles))
	for _, role := range inter.roles {
		ids = append(ids, roles[role].ID)
	}
	return &Outcome{
		InteractionID: inter.ID,
		Intensity:     intensity,
		Text:          text,
		Tags:          tags,
		CatIDs:        ids,
		Injured:       injured,
	}
}
