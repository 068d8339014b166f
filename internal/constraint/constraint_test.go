package constraint

import (
	"errors"
	"testing"

	"clansim/internal/cat"
	"clansim/internal/config"
	"clansim/internal/relationship"
	"clansim/internal/status"
)

func newCat(t *testing.T, id string, moons int, rank status.Rank) *cat.Cat {
	t.Helper()
	rec, err := status.New(status.Options{Rank: rank, Deterministic: true})
	if err != nil {
		t.Fatalf("creating status: %v", err)
	}
	return &cat.Cat{ID: id, Moons: moons, Status: rec}
}

func TestCompile(t *testing.T) {
	vocab := config.DefaultVocabulary()

	tests := []struct {
		name string
		spec Spec
		ok   bool
	}{
		{"empty", Spec{}, true},
		{"wildcards", Spec{Age: []string{"any"}, Status: []string{"any"}}, true},
		{"known values", Spec{Age: []string{"adult"}, Status: []string{"warrior", "loner"}, Skill: []string{"HUNTER,2"}, RelationshipStatus: []string{"mates", "likes_only", "trust_-20"}}, true},
		{"unknown age", Spec{Age: []string{"ancient"}}, false},
		{"unknown status", Spec{Status: []string{"king"}}, false},
		{"unknown skill", Spec{Skill: []string{"JUGGLER,1"}}, false},
		{"unknown tag", Spec{RelationshipStatus: []string{"frenemies"}}, false},
		{"unknown trait", Spec{Trait: []string{"grumpy-ish"}}, false},
		{"unknown backstory", Spec{Backstory: []string{"pirate"}}, false},
		{"unknown injury", Spec{Injuries: []string{"paper cut"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Compile(vocab)
			if tt.ok && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrUnknownValue) {
				t.Fatalf("expected ErrUnknownValue, got %v", err)
			}
		})
	}
}

func TestMatchesAttributes(t *testing.T) {
	c := newCat(t, "a", 60, status.RankWarrior)
	c.Trait = "loyal"
	c.Backstory = "clanborn"
	c.Gender = "female"
	c.Skills = cat.SkillSet{Primary: &cat.Skill{Path: cat.SkillHunter, Tier: 2}}
	c.Injuries = []string{"sprain"}

	tests := []struct {
		name string
		spec Spec
		want bool
	}{
		{"empty", Spec{}, true},
		{"age match", Spec{Age: []string{"adult"}}, true},
		{"age mismatch", Spec{Age: []string{"kitten"}}, false},
		{"any age", Spec{Age: []string{"kitten", "any"}}, true},
		{"rank", Spec{Status: []string{"warrior"}}, true},
		{"social", Spec{Status: []string{"clancat"}}, true},
		{"wrong rank", Spec{Status: []string{"leader"}}, false},
		{"trait", Spec{Trait: []string{"loyal", "calm"}}, true},
		{"not trait", Spec{NotTrait: []string{"loyal"}}, false},
		{"skill at tier", Spec{Skill: []string{"HUNTER,2"}}, true},
		{"skill above tier", Spec{Skill: []string{"HUNTER,3"}}, false},
		{"not skill", Spec{NotSkill: []string{"HUNTER,1"}}, false},
		{"backstory", Spec{Backstory: []string{"clanborn"}}, true},
		{"gender", Spec{Gender: []string{"male"}}, false},
		{"injury", Spec{Injuries: []string{"sprain", "sore"}}, true},
		{"missing injury", Spec{Injuries: []string{"sore"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := tt.spec
			if got := spec.Matches(c, nil, nil); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMatchesInjuryGroup(t *testing.T) {
	vocab := config.DefaultVocabulary()
	spec := Spec{Injuries: []string{"battle_injury"}}
	if err := spec.Compile(vocab); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wounded := newCat(t, "a", 60, status.RankWarrior)
	wounded.Injuries = []string{"claw-wound"}
	if !spec.Matches(wounded, nil, nil) {
		t.Fatalf("expected a group member injury to match the group")
	}

	sprained := newCat(t, "b", 60, status.RankWarrior)
	sprained.Injuries = []string{"sprain"}
	if spec.Matches(sprained, nil, nil) {
		t.Fatalf("expected an injury outside the group not to match")
	}
}

func TestDirectionalKinship(t *testing.T) {
	parent := newCat(t, "p", 60, status.RankWarrior)
	child := newCat(t, "c", 20, status.RankWarrior)
	child.Parent1 = parent.ID

	parentChild := Spec{RelationshipStatus: []string{TagParentChild}}
	childParent := Spec{RelationshipStatus: []string{TagChildParent}}

	if !parentChild.Matches(parent, []*cat.Cat{child}, nil) {
		t.Fatalf("expected parent/child to hold for the parent")
	}
	if childParent.Matches(parent, []*cat.Cat{child}, nil) {
		t.Fatalf("expected child/parent to fail for the parent")
	}
	if parentChild.Matches(child, []*cat.Cat{parent}, nil) {
		t.Fatalf("expected parent/child to fail for the child")
	}
	if !childParent.Matches(child, []*cat.Cat{parent}, nil) {
		t.Fatalf("expected child/parent to hold for the child")
	}
}

func TestTierTags(t *testing.T) {
	a := newCat(t, "a", 60, status.RankWarrior)
	b := newCat(t, "b", 60, status.RankWarrior)
	rels := relationship.NewRegistry(nil)
	rel := rels.Ensure(a.ID, b.ID)
	_ = rel.Set(relationship.Like, 50)
	_ = rel.Set(relationship.Trust, -25)

	tests := []struct {
		tag  string
		want bool
	}{
		{"likes", true},
		{"enjoys", true},
		{"likes_only", false},
		{"enjoys_only", true},
		{"cherishes", false},
		{"dislikes", false},
		{"doubts", true},
		{"distrusts", false},
		{"knows_of", false},
		{"observes", false},
		{"like_40", true},
		{"like_60", false},
		{"trust_-20", true},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			spec := Spec{RelationshipStatus: []string{tt.tag}}
			if got := spec.Matches(a, []*cat.Cat{b}, rels); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("missing relationship reads neutral", func(t *testing.T) {
		spec := Spec{RelationshipStatus: []string{"knows_of"}}
		if !spec.Matches(b, []*cat.Cat{a}, rels) {
			t.Fatalf("expected neutral tier for unknown pair")
		}
	})
}
