// Package constraint holds the per-role eligibility requirements attached to
// interactions and events, and the matcher that evaluates them against cats.
package constraint

import (
	"errors"
	"fmt"
	"slices"

	"clansim/internal/cat"
	"clansim/internal/status"
)

// Any is the wildcard accepted by age and status.
const Any = "any"

var ErrUnknownValue = errors.New("unknown constraint value")

// Vocabulary is the closed name set constraints are validated against.
type Vocabulary interface {
	IsTrait(name string) bool
	IsBackstory(name string) bool
	IsInjury(name string) bool
	ExpandInjuries(names []string) []string
}

// Spec is one role's requirements. Empty fields are unconstrained; age and status
// are also unconstrained when they contain "any".
type Spec struct {
	Age                []string `json:"age,omitempty" yaml:"age,omitempty"`
	Status             []string `json:"status,omitempty" yaml:"status,omitempty"`
	Trait              []string `json:"trait,omitempty" yaml:"trait,omitempty"`
	NotTrait           []string `json:"not_trait,omitempty" yaml:"not_trait,omitempty"`
	Skill              []string `json:"skill,omitempty" yaml:"skill,omitempty"`
	NotSkill           []string `json:"not_skill,omitempty" yaml:"not_skill,omitempty"`
	Backstory          []string `json:"backstory,omitempty" yaml:"backstory,omitempty"`
	RelationshipStatus []string `json:"relationship_status,omitempty" yaml:"relationship_status,omitempty"`
	Gender             []string `json:"gender,omitempty" yaml:"gender,omitempty"`
	Injuries           []string `json:"has_injuries,omitempty" yaml:"has_injuries,omitempty"`
	Dies               bool     `json:"dies,omitempty" yaml:"dies,omitempty"`

	compiled  bool
	skills    []cat.SkillRequirement
	notSkills []cat.SkillRequirement
	tags      []relTag
	// injuries is Injuries with group names replaced by their members.
	injuries []string
}

// Compile parses skill and relationship entries and checks every name against vocab.
// A nil vocab skips the trait, backstory and injury checks.
func (s *Spec) Compile(vocab Vocabulary) error {
	for _, age := range s.Age {
		if age != Any && !status.Age(age).Valid() {
			return fmt.Errorf("%w: age %q", ErrUnknownValue, age)
		}
	}
	for _, st := range s.Status {
		if st != Any && !status.Rank(st).Valid() && !validSocial(st) {
			return fmt.Errorf("%w: status %q", ErrUnknownValue, st)
		}
	}

	var err error
	if s.skills, err = compileSkills(s.Skill); err != nil {
		return err
	}
	if s.notSkills, err = compileSkills(s.NotSkill); err != nil {
		return err
	}

	s.tags = s.tags[:0]
	for _, raw := range s.RelationshipStatus {
		tag, err := parseTag(raw)
		if err != nil {
			return err
		}
		s.tags = append(s.tags, tag)
	}

	s.injuries = slices.Clone(s.Injuries)
	if vocab != nil {
		for _, trait := range append(slices.Clone(s.Trait), s.NotTrait...) {
			if !vocab.IsTrait(trait) {
				return fmt.Errorf("%w: trait %q", ErrUnknownValue, trait)
			}
		}
		for _, backstory := range s.Backstory {
			if !vocab.IsBackstory(backstory) {
				return fmt.Errorf("%w: backstory %q", ErrUnknownValue, backstory)
			}
		}
		for _, injury := range s.Injuries {
			if !vocab.IsInjury(injury) {
				return fmt.Errorf("%w: injury %q", ErrUnknownValue, injury)
			}
		}
		s.injuries = vocab.ExpandInjuries(s.Injuries)
	}

	s.compiled = true
	return nil
}

func compileSkills(values []string) ([]cat.SkillRequirement, error) {
	reqs := make([]cat.SkillRequirement, 0, len(values))
	for _, value := range values {
		req, err := cat.ParseSkillRequirement(value)
		if err != nil {
			return nil, fmt.Errorf("%w: skill %q", ErrUnknownValue, value)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func validSocial(value string) bool {
	switch status.Social(value) {
	case status.SocialClancat, status.SocialLoner, status.SocialRogue, status.SocialKittypet:
		return true
	}
	return false
}

// IsZero reports whether the spec constrains nothing.
func (s *Spec) IsZero() bool {
	return isWild(s.Age) && isWild(s.Status) &&
		len(s.Trait) == 0 && len(s.NotTrait) == 0 &&
		len(s.Skill) == 0 && len(s.NotSkill) == 0 &&
		len(s.Backstory) == 0 && len(s.RelationshipStatus) == 0 &&
		len(s.Gender) == 0 && len(s.Injuries) == 0
}

func isWild(values []string) bool {
	return len(values) == 0 || slices.Contains(values, Any)
}

// AgeConstrained and StatusConstrained report a non-wildcard list.
func (s *Spec) AgeConstrained() bool    { return !isWild(s.Age) }
func (s *Spec) StatusConstrained() bool { return !isWild(s.Status) }
