package event

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clansim/internal/cat"
	"clansim/internal/catalog"
	"clansim/internal/config"
	"clansim/internal/constraint"
	"clansim/internal/dice"
	"clansim/internal/status"
)

func TestWeight(t *testing.T) {
	vocab := config.DefaultVocabulary()
	tests := []struct {
		name  string
		event ShortEvent
		want  int
	}{
		{"unconstrained", ShortEvent{}, 1},
		{"location", ShortEvent{Location: []string{"Forest"}}, 2},
		{"one season", ShortEvent{Season: []string{"Newleaf"}}, 4},
		{"all seasons", ShortEvent{Season: []string{"Newleaf", "Greenleaf", "Leaf-fall", "Leaf-bare"}}, 1},
		{"one age", ShortEvent{Main: constraint.Spec{Age: []string{"kitten"}}}, 7},
		{"wildcard age", ShortEvent{Main: constraint.Spec{Age: []string{"any"}}}, 1},
		{"two ranks", ShortEvent{Main: constraint.Spec{Status: []string{"warrior", "deputy"}}}, 10},
		{"one trait", ShortEvent{Main: constraint.Spec{Trait: []string{"loyal"}}}, vocab.NumTraits()},
		{"random relationship", ShortEvent{Random: &constraint.Spec{RelationshipStatus: []string{"mates"}}}, 2},
		{"hostile clan", ShortEvent{OtherClan: &ReputationBlock{CurrentRep: []string{"hostile"}}}, 11},
		{"any clan", ShortEvent{OtherClan: &ReputationBlock{CurrentRep: []string{"any"}}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.event
			e.ID = "e"
			e.EventText = "m_c."
			require.NoError(t, e.Compile(vocab))
			assert.Equal(t, tt.want, e.Weight)
		})
	}
}

func TestWeightAlwaysPositive(t *testing.T) {
	vocab := config.DefaultVocabulary()
	every := append(slices.Clone(vocab.Traits), vocab.KitTraits...)
	e := ShortEvent{
		ID:        "wide",
		EventText: "m_c.",
		Main:      constraint.Spec{Trait: append(every, every...)},
	}
	require.NoError(t, e.Compile(vocab))
	assert.GreaterOrEqual(t, e.Weight, 1)

	narrow := ShortEvent{ID: "narrow", EventText: "m_c.", Main: constraint.Spec{Trait: []string{"loyal"}, Age: []string{"adult"}}}
	require.NoError(t, narrow.Compile(vocab))
	assert.Greater(t, narrow.Weight, e.Weight)
}

func TestCompileDefaults(t *testing.T) {
	e := ShortEvent{ID: "e", DeathText: "m_c died."}
	require.NoError(t, e.Compile(nil))
	assert.Equal(t, DefaultFrequency, e.Frequency)
	assert.Equal(t, []string{"any"}, e.Location)
	assert.Equal(t, []string{"any"}, e.Season)
	assert.Equal(t, "m_c died.", e.Text())
}

func TestCompileErrors(t *testing.T) {
	vocab := config.DefaultVocabulary()
	tests := []struct {
		name    string
		event   ShortEvent
		unknown bool
	}{
		{name: "no id", event: ShortEvent{EventText: "x"}},
		{name: "no text", event: ShortEvent{ID: "e"}},
		{name: "frequency", event: ShortEvent{ID: "e", EventText: "x", Frequency: 5}},
		{name: "location", event: ShortEvent{ID: "e", EventText: "x", Location: []string{"Moon"}}, unknown: true},
		{name: "season", event: ShortEvent{ID: "e", EventText: "x", Season: []string{"Snow"}}, unknown: true},
		{name: "status", event: ShortEvent{ID: "e", EventText: "x", Main: constraint.Spec{Status: []string{"king"}}}, unknown: true},
		{name: "injury", event: ShortEvent{ID: "e", EventText: "x", Injury: []InjuryBlock{{Cats: []string{"m_c"}, Injuries: []string{"sore paw"}}}}, unknown: true},
		{name: "injury role without r_c", event: ShortEvent{ID: "e", EventText: "x", Injury: []InjuryBlock{{Cats: []string{"r_c"}, Injuries: []string{"sprain"}}}}},
		{name: "relationship dimension", event: ShortEvent{ID: "e", EventText: "x", Relationships: []RelationshipBlock{{CatsFrom: []string{"m_c"}, CatsTo: []string{"clan"}, Values: []string{"envy"}}}}},
		{name: "supply adjust", event: ShortEvent{ID: "e", EventText: "x", Supplies: []SupplyBlock{{Type: "freshkill", Trigger: []string{"low"}, Adjust: "reduce_most"}}}, unknown: true},
		{name: "supply trigger", event: ShortEvent{ID: "e", EventText: "x", Supplies: []SupplyBlock{{Type: "freshkill", Trigger: []string{"plenty"}, Adjust: "reduce_half"}}}, unknown: true},
		{name: "supply herb", event: ShortEvent{ID: "e", EventText: "x", Supplies: []SupplyBlock{{Type: "nettle", Trigger: []string{"low"}, Adjust: "increase_2"}}}, unknown: true},
		{name: "outsider tier", event: ShortEvent{ID: "e", EventText: "x", Outsider: &ReputationBlock{CurrentRep: []string{"adored"}}}, unknown: true},
		{name: "new cat attribute", event: ShortEvent{ID: "e", EventText: "x", NewCat: [][]string{{"winged"}}}},
		{name: "future without type", event: ShortEvent{ID: "e", EventText: "x", FutureEvent: &FutureBlock{}}},
		{name: "future delay order", event: ShortEvent{ID: "e", EventText: "x", FutureEvent: &FutureBlock{EventType: "misc", MoonDelay: []int{4, 2}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.event
			err := e.Compile(vocab)
			require.Error(t, err)
			if tt.unknown {
				assert.True(t, errors.Is(err, constraint.ErrUnknownValue), "got %v", err)
			}
		})
	}
}

func TestAdjustment(t *testing.T) {
	tests := []struct {
		adjust string
		keep   float64
		add    int
	}{
		{ReduceFull, 0, 0},
		{ReduceHalf, 0.5, 0},
		{ReduceQuarter, 0.75, 0},
		{ReduceEighth, 0.875, 0},
		{"increase_6", 1, 6},
	}
	for _, tt := range tests {
		keep, add, err := adjustment(tt.adjust)
		require.NoError(t, err, tt.adjust)
		assert.Equal(t, tt.keep, keep, tt.adjust)
		assert.Equal(t, tt.add, add, tt.adjust)
	}
	_, _, err := adjustment("increase_0")
	assert.Error(t, err)
}

func TestParseNewCat(t *testing.T) {
	spec, err := parseNewCat([]string{"female", "loner", "meeting", "age:adult", "backstory:loner1,rogue1", "parent:m_c", "mate:r_c", "name:Reed"})
	require.NoError(t, err)
	assert.Equal(t, "female", spec.gender)
	assert.Equal(t, status.SocialLoner, spec.social)
	assert.True(t, spec.meeting)
	assert.Equal(t, status.AgeAdult, spec.age)
	assert.Equal(t, []string{"loner1", "rogue1"}, spec.backstory)
	assert.Equal(t, []string{"m_c"}, spec.parents)
	assert.Equal(t, []string{"r_c"}, spec.mates)
	assert.Equal(t, "Reed", spec.name)

	for _, bad := range [][]string{{"age:ancient"}, {"status:king"}, {"parent:m_c,r_c,n_c:0"}, {"colour:red"}} {
		_, err := parseNewCat(bad)
		assert.Error(t, err, "%v", bad)
	}
}

func TestBuildNewCats(t *testing.T) {
	rng := dice.New(3)
	mother := newCat(t, "mother", status.RankWarrior)
	lookup := func(role string) *cat.Cat {
		if role == RoleMain {
			return mother
		}
		return nil
	}

	spec, err := parseNewCat([]string{"litter", "parent:m_c"})
	require.NoError(t, err)
	kits, err := spec.build(rng, lookup)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(kits), 2)
	require.LessOrEqual(t, len(kits), 4)
	for _, kit := range kits {
		assert.Equal(t, 0, kit.Moons)
		assert.Equal(t, "mother", kit.Parent1)
		assert.True(t, kit.AliveInHomeClan(), kit.Name)
	}

	spec, err = parseNewCat([]string{"meeting", "mate:m_c", "name:Reed"})
	require.NoError(t, err)
	met, err := spec.build(rng, lookup)
	require.NoError(t, err)
	require.Len(t, met, 1)
	assert.Equal(t, "Reed", met[0].Name)
	assert.False(t, met[0].AliveInHomeClan())
	assert.Equal(t, status.SocialLoner, met[0].Status.Social())
	assert.Contains(t, mother.Mates, met[0].ID)
	assert.Contains(t, met[0].Mates, mother.ID)
}

func TestLoad(t *testing.T) {
	src := catalog.NewSource("testdata/lang", "en", "")
	vocab := config.DefaultVocabulary()

	forest, err := Load(src, TypeDeath, "Forest", vocab)
	require.NoError(t, err)
	require.Len(t, forest, 2)
	assert.Equal(t, "forest_tree_fall", forest[0].ID)
	assert.Equal(t, 3, forest[1].Frequency)

	// birth_death reads the death directory.
	general, err := Load(src, TypeBirthDeath, "general", vocab)
	require.NoError(t, err)
	require.Len(t, general, 1)
	assert.True(t, general[0].NeedsRandom())

	missing, err := Load(src, TypeDeath, "Desert", vocab)
	require.NoError(t, err)
	assert.Empty(t, missing)

	_, err = Load(catalog.NewSource("testdata/bad", "en", ""), TypeHealth, "general", vocab)
	require.Error(t, err)
	assert.ErrorIs(t, err, constraint.ErrUnknownValue)
}

func TestCacheAndEventsFor(t *testing.T) {
	src := catalog.NewSource("testdata/lang", "en", "")
	cache := NewCache(src, config.DefaultVocabulary())

	first, err := cache.Events(TypeDeath, "Forest")
	require.NoError(t, err)
	again, err := cache.Events(TypeBirthDeath, "forest")
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.Same(t, first[0], again[0])

	var ids []string
	for _, e := range eventsFor(cache, TypeDeath, "Forest", 4) {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"forest_tree_fall", "general_murder"}, ids)
	assert.Len(t, eventsFor(cache, TypeDeath, "Forest", 3), 1)

	// A broken file is skipped rather than failing generation.
	bad := NewCache(catalog.NewSource("testdata/bad", "en", ""), config.DefaultVocabulary())
	assert.Empty(t, eventsFor(bad, TypeInjury, "Forest", 4))

	// The broken file is parsed once per locale; later lookups replay the failure.
	_, err = bad.Events(TypeInjury, "general")
	assert.ErrorIs(t, err, catalog.ErrCachedFailure)
	assert.Empty(t, eventsFor(bad, TypeInjury, "Forest", 3))
}
