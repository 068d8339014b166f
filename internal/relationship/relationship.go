package relationship

import (
	"errors"
	"fmt"
)

var ErrUnknownDimension = errors.New("unknown relationship dimension")

// Relationship is one cat's view of another. The reverse view is a separate object held by the Registry.
type Relationship struct {
	From   string
	To     string
	Mates  bool
	Family bool
	Log    []string

	values map[Dimension]int
	tiers  *Tiers
}

// Snapshot is the persisted form of a Relationship, written from its owner's perspective.
type Snapshot struct {
	From    string   `json:"cat_from_id" yaml:"cat_from_id"`
	To      string   `json:"cat_to_id" yaml:"cat_to_id"`
	Mates   bool     `json:"mates" yaml:"mates"`
	Family  bool     `json:"family" yaml:"family"`
	Romance int      `json:"romance" yaml:"romance"`
	Like    int      `json:"like" yaml:"like"`
	Respect int      `json:"respect" yaml:"respect"`
	Trust   int      `json:"trust" yaml:"trust"`
	Comfort int      `json:"comfort" yaml:"comfort"`
	Log     []string `json:"log" yaml:"log"`
}

func newRelationship(from, to string, tiers *Tiers) *Relationship {
	return &Relationship{
		From:   from,
		To:     to,
		values: make(map[Dimension]int, len(Dimensions)),
		tiers:  tiers,
	}
}

func (r *Relationship) Value(d Dimension) int { return r.values[d] }

func (r *Relationship) Romance() int { return r.values[Romance] }
func (r *Relationship) Like() int    { return r.values[Like] }
func (r *Relationship) Respect() int { return r.values[Respect] }
func (r *Relationship) Trust() int   { return r.values[Trust] }
func (r *Relationship) Comfort() int { return r.values[Comfort] }

// Set assigns a dimension, clamping silently to its range.
func (r *Relationship) Set(d Dimension, value int) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownDimension, d)
	}
	r.values[d] = min(max(value, d.Min()), d.Max())
	return nil
}

// Add shifts a dimension by delta, clamping the result.
func (r *Relationship) Add(d Dimension, delta int) error {
	return r.Set(d, r.values[d]+delta)
}

func (r *Relationship) mustAdd(d Dimension, delta int) {
	_ = r.Add(d, delta)
}

func (r *Relationship) Tier(d Dimension) Tier {
	return r.tiers.Classify(d, r.values[d])
}

// Tiers returns the current tier of every dimension in Dimensions order.
func (r *Relationship) Tiers() []Tier {
	tiers := make([]Tier, 0, len(Dimensions))
	for _, d := range Dimensions {
		tiers = append(tiers, r.Tier(d))
	}
	return tiers
}

// Total sums all five dimensions.
func (r *Relationship) Total() int {
	total := 0
	for _, d := range Dimensions {
		total += r.values[d]
	}
	return total
}

func (r *Relationship) HasExtremeNegative() bool {
	for _, tier := range r.Tiers() {
		if tier.Group() == GroupExtremeNeg {
			return true
		}
	}
	return false
}

func (r *Relationship) HasExtremePositive() bool {
	for _, tier := range r.Tiers() {
		if tier.Group() == GroupExtremePos {
			return true
		}
	}
	return false
}

// IsEmpty reports whether every dimension reads neutral.
func (r *Relationship) IsEmpty() bool {
	for _, tier := range r.Tiers() {
		if tier.Group() != GroupNeutral {
			return false
		}
	}
	return true
}

// Qualifies checks minimum magnitudes: a positive threshold needs value >= threshold,
// a negative one needs value <= threshold, zero is ignored.
func (r *Relationship) Qualifies(thresholds map[Dimension]int) bool {
	for d, threshold := range thresholds {
		value := r.values[d]
		switch {
		case threshold > 0 && value < threshold:
			return false
		case threshold < 0 && value > threshold:
			return false
		}
	}
	return true
}

// AppendLog records a rendered narration.
func (r *Relationship) AppendLog(line string) {
	r.Log = append(r.Log, line)
}

func (r *Relationship) Snapshot() Snapshot {
	return Snapshot{
		From:    r.From,
		To:      r.To,
		Mates:   r.Mates,
		Family:  r.Family,
		Romance: r.values[Romance],
		Like:    r.values[Like],
		Respect: r.values[Respect],
		Trust:   r.values[Trust],
		Comfort: r.values[Comfort],
		Log:     append([]string(nil), r.Log...),
	}
}
