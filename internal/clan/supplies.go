package clan

import (
	"slices"
	"sort"
)

// Supply ratings, lowest first. "always" is accepted as a trigger too.
const (
	SupplyEmpty    = "empty"
	SupplyLow      = "low"
	SupplyAdequate = "adequate"
	SupplyFull     = "full"
	SupplyExcess   = "excess"

	TriggerAlways = "always"
)

var SupplyRatings = []string{SupplyEmpty, SupplyLow, SupplyAdequate, SupplyFull, SupplyExcess}

// ValidTrigger reports whether s is a rating or "always".
func ValidTrigger(s string) bool {
	return s == TriggerAlways || slices.Contains(SupplyRatings, s)
}

// PreyPerCat is how much prey one cat eats in a moon.
const PreyPerCat = 3.0

type FreshkillPile struct {
	Amount float64 `yaml:"amount" json:"amount"`
}

// Rating compares the pile against what clanSize cats need for a moon.
func (p FreshkillPile) Rating(clanSize int) string {
	need := float64(max(clanSize, 1)) * PreyPerCat
	ratio := p.Amount / need
	switch {
	case p.Amount <= 0:
		return SupplyEmpty
	case ratio < 0.5:
		return SupplyLow
	case ratio < 1:
		return SupplyAdequate
	case ratio < 2:
		return SupplyFull
	default:
		return SupplyExcess
	}
}

// Adjust multiplies or adds to the pile, never going below zero.
func (p *FreshkillPile) Adjust(fraction float64, add float64) {
	p.Amount = max(p.Amount*fraction+add, 0)
}

// HerbSupply maps herb name to stock.
type HerbSupply map[string]int

// Rating compares one herb's stock to the clan size.
func (h HerbSupply) Rating(herb string, clanSize int) string {
	stock := h[herb]
	size := max(clanSize, 1)
	switch {
	case stock <= 0:
		return SupplyEmpty
	case stock*4 < size:
		return SupplyLow
	case stock*2 < size:
		return SupplyAdequate
	case stock < size:
		return SupplyFull
	default:
		return SupplyExcess
	}
}

// Herbs lists stocked herbs in name order.
func (h HerbSupply) Herbs() []string {
	out := make([]string, 0, len(h))
	for name := range h {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Matching lists the herbs among known whose rating is one of triggers.
func (h HerbSupply) Matching(known []string, triggers []string, clanSize int) []string {
	var out []string
	for _, herb := range known {
		if slices.Contains(triggers, TriggerAlways) || slices.Contains(triggers, h.Rating(herb, clanSize)) {
			out = append(out, herb)
		}
	}
	return out
}
