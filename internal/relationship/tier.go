package relationship

import (
	"clansim/internal/config"
)

// Dimension is one of the five affinity scales a relationship tracks.
type Dimension string

const (
	Romance Dimension = "romance"
	Like    Dimension = "like"
	Respect Dimension = "respect"
	Trust   Dimension = "trust"
	Comfort Dimension = "comfort"
)

var Dimensions = []Dimension{Romance, Like, Respect, Trust, Comfort}

// Passive lists the dimensions that receive the high-intensity cascade.
var Passive = []Dimension{Like, Respect, Trust, Comfort}

func (d Dimension) Valid() bool {
	switch d {
	case Romance, Like, Respect, Trust, Comfort:
		return true
	}
	return false
}

func (d Dimension) Min() int {
	if d == Romance {
		return 0
	}
	return -100
}

func (d Dimension) Max() int { return 100 }

type TierGroup string

const (
	GroupExtremeNeg TierGroup = "extreme_neg"
	GroupMidNeg     TierGroup = "mid_neg"
	GroupLowNeg     TierGroup = "low_neg"
	GroupNeutral    TierGroup = "neutral"
	GroupLowPos     TierGroup = "low_pos"
	GroupMidPos     TierGroup = "mid_pos"
	GroupExtremePos TierGroup = "extreme_pos"
)

var tierGroups = []TierGroup{GroupExtremeNeg, GroupMidNeg, GroupLowNeg, GroupNeutral, GroupLowPos, GroupMidPos, GroupExtremePos}

// Rank orders groups from -3 (extreme negative) to 3 (extreme positive).
func (g TierGroup) Rank() int {
	for i, group := range tierGroups {
		if group == g {
			return i - 3
		}
	}
	return 0
}

func (g TierGroup) IsNegative() bool { return g.Rank() < 0 }
func (g TierGroup) IsPositive() bool { return g.Rank() > 0 }

// Tier is the categorical read-out of one dimension.
type Tier string

const (
	Loathes   Tier = "loathes"
	Hates     Tier = "hates"
	Dislikes  Tier = "dislikes"
	KnowsOf   Tier = "knows_of"
	Likes     Tier = "likes"
	Enjoys    Tier = "enjoys"
	Cherishes Tier = "cherishes"

	Resents      Tier = "resents"
	Envies       Tier = "envies"
	Begrudges    Tier = "begrudges"
	Acknowledges Tier = "acknowledges"
	Praises      Tier = "praises"
	Respects     Tier = "respects"
	Admires      Tier = "admires"

	Discredits Tier = "discredits"
	Distrusts  Tier = "distrusts"
	Doubts     Tier = "doubts"
	Observes   Tier = "observes"
	ListensTo  Tier = "listens_to"
	Trusts     Tier = "trusts"
	ConfidesIn Tier = "confides_in"

	RunsFrom    Tier = "runs_from"
	Fears       Tier = "fears"
	Avoids      Tier = "avoids"
	Considers   Tier = "considers"
	RelatesTo   Tier = "relates_to"
	Understands Tier = "understands"
	KnowsDeeply Tier = "knows_deeply"

	Uninterested Tier = "uninterested"
	Fancies      Tier = "fancies"
	Adores       Tier = "adores"
	Loves        Tier = "loves"
)

// labels are indexed by tier group, most negative first. Romance only uses the upper half.
var labels = map[Dimension][]Tier{
	Like:    {Loathes, Hates, Dislikes, KnowsOf, Likes, Enjoys, Cherishes},
	Respect: {Resents, Envies, Begrudges, Acknowledges, Praises, Respects, Admires},
	Trust:   {Discredits, Distrusts, Doubts, Observes, ListensTo, Trusts, ConfidesIn},
	Comfort: {RunsFrom, Fears, Avoids, Considers, RelatesTo, Understands, KnowsDeeply},
	Romance: {Uninterested, Uninterested, Uninterested, Uninterested, Fancies, Adores, Loves},
}

type tierInfo struct {
	dimension Dimension
	group     TierGroup
}

var tierIndex = func() map[Tier]tierInfo {
	index := make(map[Tier]tierInfo)
	for dim, list := range labels {
		for i, tier := range list {
			if dim == Romance && i < 3 {
				continue
			}
			index[tier] = tierInfo{dimension: dim, group: tierGroups[i]}
		}
	}
	return index
}()

// ParseTier recognises a tier label.
func ParseTier(s string) (Tier, bool) {
	_, ok := tierIndex[Tier(s)]
	return Tier(s), ok
}

func (t Tier) Dimension() Dimension { return tierIndex[t].dimension }

func (t Tier) Group() TierGroup { return tierIndex[t].group }

// Labels returns a dimension's tier labels, most negative first.
func Labels(d Dimension) []Tier {
	if d == Romance {
		return append([]Tier(nil), labels[Romance][3:]...)
	}
	return append([]Tier(nil), labels[d]...)
}

// Tiers classifies values against configured cut-points.
type Tiers struct {
	intervals []config.Interval
}

func NewTiers(intervals []config.Interval) *Tiers {
	if len(intervals) == 0 {
		intervals = config.DefaultIntervals()
	}
	return &Tiers{intervals: append([]config.Interval(nil), intervals...)}
}

// DefaultTiers uses the stock cut-points.
var DefaultTiers = NewTiers(nil)

// Group returns the first interval whose upper bound is at or above value.
func (t *Tiers) Group(value int) TierGroup {
	if t == nil {
		t = DefaultTiers
	}
	for _, interval := range t.intervals {
		if value <= interval.Max {
			return TierGroup(interval.Group)
		}
	}
	return GroupExtremePos
}

// Classify maps a value on a dimension to its tier label.
func (t *Tiers) Classify(d Dimension, value int) Tier {
	group := t.Group(value)
	list := labels[d]
	if list == nil {
		return ""
	}
	// Romance maps every negative group to uninterested through its label table.
	return list[group.Rank()+3]
}
