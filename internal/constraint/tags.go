package constraint

import (
	"fmt"
	"strconv"
	"strings"

	"clansim/internal/cat"
	"clansim/internal/relationship"
)

// Kinship tags are derived from parentage and mate lists, never from relationship values.
const (
	TagSiblings    = "siblings"
	TagMates       = "mates"
	TagNotMates    = "not_mates"
	TagParentChild = "parent/child"
	TagChildParent = "child/parent"
	TagRelated     = "related"
	TagNotRelated  = "not_related"
)

var kinshipTags = map[string]struct{}{
	TagSiblings:    {},
	TagMates:       {},
	TagNotMates:    {},
	TagParentChild: {},
	TagChildParent: {},
	TagRelated:     {},
	TagNotRelated:  {},
}

const onlySuffix = "_only"

type tagKind int

const (
	kindKinship tagKind = iota
	kindTier
	kindThreshold
)

// relTag is a parsed relationship_status entry.
type relTag struct {
	raw       string
	kind      tagKind
	tier      relationship.Tier
	only      bool
	dimension relationship.Dimension
	threshold int
}

// parseTag accepts kinship tags, tier labels with an optional "_only" suffix,
// and "<dimension>_<n>" thresholds such as "like_30" or "trust_-20".
func parseTag(raw string) (relTag, error) {
	tag := strings.TrimSpace(raw)
	if _, ok := kinshipTags[tag]; ok {
		return relTag{raw: tag, kind: kindKinship}, nil
	}

	label, only := strings.CutSuffix(tag, onlySuffix)
	if tier, ok := relationship.ParseTier(label); ok {
		return relTag{raw: tag, kind: kindTier, tier: tier, only: only}, nil
	}

	if name, amount, ok := strings.Cut(tag, "_"); ok {
		dim := relationship.Dimension(name)
		if n, err := strconv.Atoi(amount); err == nil && dim.Valid() {
			return relTag{raw: tag, kind: kindThreshold, dimension: dim, threshold: n}, nil
		}
	}

	return relTag{}, fmt.Errorf("%w: relationship_status %q", ErrUnknownValue, raw)
}

// holds evaluates the tag for actor relative to other.
func (t relTag) holds(actor, other *cat.Cat, rels *relationship.Registry) bool {
	switch t.kind {
	case kindKinship:
		return kinshipHolds(t.raw, actor, other)
	case kindTier:
		value := 0
		tiers := relationship.DefaultTiers
		if rels != nil {
			tiers = rels.Tiers()
			if rel, ok := rels.Get(actor.ID, other.ID); ok {
				value = rel.Value(t.tier.Dimension())
			}
		}
		current := tiers.Classify(t.tier.Dimension(), value)
		if t.only || t.tier.Group() == relationship.GroupNeutral {
			return current == t.tier
		}
		want := t.tier.Group().Rank()
		got := current.Group().Rank()
		if want > 0 {
			return got >= want
		}
		return got <= want
	case kindThreshold:
		if rels == nil {
			return false
		}
		rel, ok := rels.Get(actor.ID, other.ID)
		if !ok {
			return false
		}
		return rel.Qualifies(map[relationship.Dimension]int{t.dimension: t.threshold})
	}
	return false
}

func kinshipHolds(tag string, actor, other *cat.Cat) bool {
	switch tag {
	case TagSiblings:
		return actor.IsSiblingOf(other)
	case TagMates:
		return actor.IsMateOf(other)
	case TagNotMates:
		return !actor.IsMateOf(other)
	case TagParentChild:
		return actor.IsParentOf(other)
	case TagChildParent:
		return other.IsParentOf(actor)
	case TagRelated:
		return actor.IsRelatedTo(other)
	case TagNotRelated:
		return !actor.IsRelatedTo(other)
	}
	return false
}
