package constraint

import (
	"slices"

	"clansim/internal/cat"
	"clansim/internal/relationship"
)

// Matches reports whether actor satisfies every present field. Relationship tags are
// checked against each co-actor in turn. An uncompiled spec is compiled without a vocabulary.
func (s *Spec) Matches(actor *cat.Cat, coActors []*cat.Cat, rels *relationship.Registry) bool {
	if actor == nil {
		return false
	}
	if !s.compiled {
		if err := s.Compile(nil); err != nil {
			return false
		}
	}

	if !isWild(s.Age) && !slices.Contains(s.Age, string(actor.Age())) {
		return false
	}
	if !isWild(s.Status) {
		rank := string(actor.Rank())
		social := ""
		if actor.Status != nil {
			social = string(actor.Status.Social())
		}
		if !slices.Contains(s.Status, rank) && !slices.Contains(s.Status, social) {
			return false
		}
	}

	if len(s.Trait) > 0 && !slices.Contains(s.Trait, actor.Trait) {
		return false
	}
	if slices.Contains(s.NotTrait, actor.Trait) {
		return false
	}

	if len(s.skills) > 0 && !meetsAny(actor, s.skills) {
		return false
	}
	if meetsAny(actor, s.notSkills) {
		return false
	}

	if len(s.Backstory) > 0 && !slices.Contains(s.Backstory, actor.Backstory) {
		return false
	}
	if len(s.Gender) > 0 && !slices.Contains(s.Gender, actor.Gender) {
		return false
	}
	if len(s.injuries) > 0 && !HasAnyInjury(actor, s.injuries) {
		return false
	}

	for _, other := range coActors {
		if other == nil || other.ID == actor.ID {
			continue
		}
		for _, tag := range s.tags {
			if !tag.holds(actor, other, rels) {
				return false
			}
		}
	}
	return true
}

func meetsAny(actor *cat.Cat, reqs []cat.SkillRequirement) bool {
	for _, req := range reqs {
		if actor.Skills.Meets(req.Path, req.Tier) {
			return true
		}
	}
	return false
}

// HasAnyInjury reports whether actor currently has at least one of names.
func HasAnyInjury(actor *cat.Cat, names []string) bool {
	for _, name := range names {
		if actor.HasInjury(name) {
			return true
		}
	}
	return false
}
