package cat

import (
	"fmt"
	"strconv"
	"strings"
)

type SkillPath string

const (
	SkillTeacher     SkillPath = "TEACHER"
	SkillHunter      SkillPath = "HUNTER"
	SkillFighter     SkillPath = "FIGHTER"
	SkillRunner      SkillPath = "RUNNER"
	SkillClimber     SkillPath = "CLIMBER"
	SkillSwimmer     SkillPath = "SWIMMER"
	SkillSpeaker     SkillPath = "SPEAKER"
	SkillMediator    SkillPath = "MEDIATOR"
	SkillClever      SkillPath = "CLEVER"
	SkillInsightful  SkillPath = "INSIGHTFUL"
	SkillSense       SkillPath = "SENSE"
	SkillKit         SkillPath = "KIT"
	SkillStory       SkillPath = "STORY"
	SkillLore        SkillPath = "LORE"
	SkillCamp        SkillPath = "CAMP"
	SkillHealer      SkillPath = "HEALER"
	SkillStar        SkillPath = "STAR"
	SkillDark        SkillPath = "DARK"
	SkillOmen        SkillPath = "OMEN"
	SkillDream       SkillPath = "DREAM"
	SkillClairvoyant SkillPath = "CLAIRVOYANT"
	SkillProphet     SkillPath = "PROPHET"
	SkillGhost       SkillPath = "GHOST"
)

var SkillPaths = []SkillPath{
	SkillTeacher, SkillHunter, SkillFighter, SkillRunner, SkillClimber, SkillSwimmer,
	SkillSpeaker, SkillMediator, SkillClever, SkillInsightful, SkillSense, SkillKit,
	SkillStory, SkillLore, SkillCamp, SkillHealer, SkillStar, SkillDark, SkillOmen,
	SkillDream, SkillClairvoyant, SkillProphet, SkillGhost,
}

const MaxSkillTier = 3

func (p SkillPath) Valid() bool {
	for _, path := range SkillPaths {
		if path == p {
			return true
		}
	}
	return false
}

type Skill struct {
	Path SkillPath `json:"path" yaml:"path"`
	Tier int       `json:"tier" yaml:"tier"`
}

type SkillSet struct {
	Primary   *Skill `json:"primary,omitempty" yaml:"primary,omitempty"`
	Secondary *Skill `json:"secondary,omitempty" yaml:"secondary,omitempty"`
}

// Meets reports whether either skill is on path at tier or above.
func (s SkillSet) Meets(path SkillPath, tier int) bool {
	for _, skill := range []*Skill{s.Primary, s.Secondary} {
		if skill != nil && skill.Path == path && skill.Tier >= tier {
			return true
		}
	}
	return false
}

// SkillRequirement is the parsed form of a "PATH,tier" constraint string.
type SkillRequirement struct {
	Path SkillPath
	Tier int
}

// ParseSkillRequirement parses "HUNTER,2". A bare path means tier 1.
func ParseSkillRequirement(value string) (SkillRequirement, error) {
	name, tierText, hasTier := strings.Cut(strings.TrimSpace(value), ",")
	req := SkillRequirement{Path: SkillPath(strings.ToUpper(strings.TrimSpace(name))), Tier: 1}
	if !req.Path.Valid() {
		return SkillRequirement{}, fmt.Errorf("unknown skill path: %s", name)
	}
	if hasTier {
		tier, err := strconv.Atoi(strings.TrimSpace(tierText))
		if err != nil {
			return SkillRequirement{}, fmt.Errorf("invalid skill tier %q: %w", tierText, err)
		}
		if tier < 1 || tier > MaxSkillTier {
			return SkillRequirement{}, fmt.Errorf("skill tier out of range: %d", tier)
		}
		req.Tier = tier
	}
	return req, nil
}
