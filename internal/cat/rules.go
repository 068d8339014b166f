package cat

import "clansim/internal/status"

type Compatibility int

const (
	CompatibilityNegative Compatibility = -1
	CompatibilityNeutral  Compatibility = 0
	CompatibilityPositive Compatibility = 1
)

// Rules are the actor capabilities the relationship engine consults but does not own.
type Rules interface {
	Compatibility(from, to *Cat) Compatibility
	IsPotentialMate(from, to *Cat) bool
}

// TraitAffinity lists the traits a trait gets along with and clashes with.
type TraitAffinity struct {
	Positive []string `yaml:"positive" json:"positive"`
	Negative []string `yaml:"negative" json:"negative"`
}

// TraitRules rates compatibility from a trait table and gates romance on age and kinship.
type TraitRules struct {
	Affinities map[string]TraitAffinity
	// MaxAgeGap is the largest moon difference allowed between potential mates below senior adult age.
	MaxAgeGap int
}

var _ Rules = (*TraitRules)(nil)

func NewTraitRules(affinities map[string]TraitAffinity) *TraitRules {
	return &TraitRules{Affinities: affinities, MaxAgeGap: 40}
}

func (r *TraitRules) Compatibility(from, to *Cat) Compatibility {
	if from == nil || to == nil || from.Trait == "" || to.Trait == "" {
		return CompatibilityNeutral
	}
	if from.Trait == to.Trait {
		return CompatibilityPositive
	}
	affinity, ok := r.Affinities[from.Trait]
	if !ok {
		return CompatibilityNeutral
	}
	for _, trait := range affinity.Positive {
		if trait == to.Trait {
			return CompatibilityPositive
		}
	}
	for _, trait := range affinity.Negative {
		if trait == to.Trait {
			return CompatibilityNegative
		}
	}
	return CompatibilityNeutral
}

func (r *TraitRules) IsPotentialMate(from, to *Cat) bool {
	if from == nil || to == nil || from.ID == to.ID {
		return false
	}
	if from.Dead || to.Dead {
		return false
	}
	if !adult(from.Age()) || !adult(to.Age()) {
		return false
	}
	if from.IsRelatedTo(to) {
		return false
	}
	if seniorish(from.Age()) && seniorish(to.Age()) {
		return true
	}
	gap := from.Moons - to.Moons
	if gap < 0 {
		gap = -gap
	}
	return r.MaxAgeGap <= 0 || gap <= r.MaxAgeGap
}

func adult(age status.Age) bool {
	switch age {
	case status.AgeYoungAdult, status.AgeAdult, status.AgeSeniorAdult, status.AgeSenior:
		return true
	}
	return false
}

func seniorish(age status.Age) bool {
	return age == status.AgeSeniorAdult || age == status.AgeSenior
}
