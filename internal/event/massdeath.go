package event

import (
	"slices"

	"clansim/internal/cat"
	"clansim/internal/constraint"
	"clansim/internal/dice"
)

const (
	// MassDeathMinPool is the largest eligible pool that is still too small for a mass death.
	MassDeathMinPool = 15
	maxMassDeaths    = 10
)

// massDeath picks the cats a disaster takes. Eligible cats are living clanmates passing
// m_c's age and status lists. It reports false, changing nothing, when the pool is too small.
func (r *run) massDeath() bool {
	gate := constraint.Spec{Age: r.e.Main.Age, Status: r.e.Main.Status}
	var pool []*cat.Cat
	for _, c := range r.g.clan.Living() {
		if gate.Matches(c, nil, nil) {
			pool = append(pool, c)
		}
	}
	if len(pool) <= MassDeathMinPool {
		return false
	}

	taken := slices.Clone(dice.Sample(r.g.rng, pool, massDeathCount(r, len(pool))))
	if !slices.Contains(taken, r.main) {
		// The cat that rolled the event is always among them.
		taken = append(taken, r.main)
	}

	lost := r.e.HasTag(TagLost)
	for _, c := range taken {
		if lost {
			c.Status.BecomeLost("")
		} else {
			r.dead = append(r.dead, c)
		}
		r.multi = append(r.multi, c)
		r.involve(c)
	}
	return true
}

// massDeathCount draws from 2..min(pool/2, 10)-1, favouring smaller numbers.
func massDeathCount(r *run, pool int) int {
	most := min(pool/2, maxMassDeaths)
	var weights []float64
	for n := 2; n < most; n++ {
		weights = append(weights, 1/(0.75*float64(n)))
	}
	i := dice.WeightedFloat(r.g.rng, weights)
	if i < 0 {
		return 2
	}
	return i + 2
}
