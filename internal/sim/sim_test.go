package sim

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clansim/internal/cat"
	"clansim/internal/clan"
	"clansim/internal/config"
	"clansim/internal/constraint"
	"clansim/internal/dice"
	"clansim/internal/event"
	"clansim/internal/interaction"
	"clansim/internal/logger"
	"clansim/internal/relationship"
	"clansim/internal/status"
	"clansim/internal/store"
	"clansim/internal/store/sqlite"
)

func TestMain(m *testing.M) {
	logger.Silence()
	m.Run()
}

type neutralRules struct{}

func (neutralRules) Compatibility(from, to *cat.Cat) cat.Compatibility {
	return cat.CompatibilityNeutral
}
func (neutralRules) IsPotentialMate(from, to *cat.Cat) bool { return false }

func newClan(t *testing.T, n int) *clan.Clan {
	t.Helper()
	c := clan.New(config.ClanConfig{Name: "Thunder", Biome: "Forest", Season: "Newleaf", Age: 10, Reputation: 50})
	for i := range n {
		rec, err := status.New(status.Options{Rank: status.RankWarrior, Deterministic: true})
		require.NoError(t, err)
		id := fmt.Sprintf("w%d", i)
		require.NoError(t, c.Add(&cat.Cat{ID: id, Name: id, Moons: 40, Gender: "female", GenderAlign: "female", Status: rec}))
	}
	return c
}

// interactions has one unconstrained interaction for every dimension, polarity and intensity.
func interactions(t *testing.T) *interaction.Catalog {
	t.Helper()
	c := interaction.NewCatalog()
	for _, d := range relationship.Dimensions {
		for _, p := range []interaction.Polarity{interaction.Increase, interaction.Decrease} {
			for _, i := range interaction.Intensities {
				inter := &interaction.SingleInteraction{
					ID:           fmt.Sprintf("%s-%s-%s", d, p, i),
					Intensity:    i,
					Interactions: []string{"m_c spends time with r_c."},
				}
				require.NoError(t, c.Add(d, p, inter, nil))
			}
		}
	}
	return c
}

func newStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.New(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(ctx) })
	require.NoError(t, db.EnsureSchema(ctx))
	return db
}

func newSimulator(t *testing.T, c *clan.Clan, events event.Source, db store.Store, cfg config.SimulationConfig) *Simulator {
	t.Helper()
	rng := dice.New(7)
	rels := relationship.NewRegistry(relationship.NewTiers(config.DefaultIntervals()))
	engine := interaction.NewEngine(interaction.Options{
		Source:   interaction.Static{C: interactions(t)},
		Rules:    neutralRules{},
		Registry: rels,
		Config:   config.Defaults().Relationship,
		Rand:     rng,
	})
	gen := event.NewGenerator(event.Options{
		Source:     events,
		Clan:       c,
		Registry:   rels,
		Rules:      neutralRules{},
		Vocabulary: config.DefaultVocabulary(),
		Rand:       rng,
	})
	s, err := New(Options{Clan: c, Interactions: engine, Events: gen, Store: db, Config: cfg, Rand: rng})
	require.NoError(t, err)
	return s
}

func TestNewRequiresParts(t *testing.T) {
	_, err := New(Options{Clan: newClan(t, 1)})
	assert.Error(t, err)
}

func TestMoonAgesCats(t *testing.T) {
	c := newClan(t, 2)
	dead, _ := c.Get("w1")
	dead.Die(true)

	s := newSimulator(t, c, event.Static{}, nil, config.SimulationConfig{})
	report, err := s.Moon(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Moon)
	assert.Equal(t, 1, s.Current())
	assert.Equal(t, 11, c.Age)

	alive, _ := c.Get("w0")
	assert.Equal(t, 41, alive.Moons)
	history := alive.Status.GroupHistory()
	assert.Equal(t, 1, history[len(history)-1].MoonsAs)
	assert.Equal(t, 40, dead.Moons)
}

func TestMoonInteractionsArePersisted(t *testing.T) {
	ctx := context.Background()
	c := newClan(t, 3)
	db := newStore(t)
	s := newSimulator(t, c, event.Static{}, db, config.SimulationConfig{InteractionsPerCat: 2})

	reports, err := s.Run(ctx, 2)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	for _, report := range reports {
		require.NotEmpty(t, report.Records)
		for _, rec := range report.Records {
			assert.Equal(t, report.Moon, rec.Moon)
			assert.Contains(t, rec.Types, interaction.TagInteraction)
			assert.Len(t, rec.CatIDs, 2)
		}
	}

	latest, err := db.LatestMoon(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, latest)

	rels, err := db.ListRelationships(ctx, "w0")
	require.NoError(t, err)
	assert.NotEmpty(t, rels)

	logged, err := db.ListEvents(ctx, store.EventFilter{Type: interaction.TagInteraction})
	require.NoError(t, err)
	assert.Len(t, logged, len(reports[0].Records)+len(reports[1].Records))

	snap, err := db.GetStatus(ctx, "w2")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.GroupHistory[len(snap.GroupHistory)-1].MoonsAs)
}

func TestMoonRollsEvents(t *testing.T) {
	ctx := context.Background()
	misc := &event.ShortEvent{ID: "misc_sunning", EventText: "m_c naps in the sun."}
	require.NoError(t, misc.Compile(config.DefaultVocabulary()))
	src := event.Static{"misc/general": {misc}}

	t.Run("every cat when the chance is certain", func(t *testing.T) {
		db := newStore(t)
		s := newSimulator(t, newClan(t, 2), src, db, config.SimulationConfig{EventTypes: []string{event.TypeMisc}, EventChance: 100})
		report, err := s.Moon(ctx)
		require.NoError(t, err)
		require.Len(t, report.Records, 2)
		for _, rec := range report.Records {
			assert.Equal(t, "misc_sunning", rec.EventID)
			assert.Contains(t, rec.Types, event.TypeMisc)
		}

		logged, err := db.ListEvents(ctx, store.EventFilter{CatID: "w0", Type: event.TypeMisc})
		require.NoError(t, err)
		require.Len(t, logged, 1)
		assert.Contains(t, logged[0].Text, "naps in the sun")
	})

	t.Run("never when the chance is zero", func(t *testing.T) {
		s := newSimulator(t, newClan(t, 2), src, nil, config.SimulationConfig{EventTypes: []string{event.TypeMisc}})
		report, err := s.Moon(ctx)
		require.NoError(t, err)
		assert.Empty(t, report.Records)
	})
}

func TestMoonReportsDeaths(t *testing.T) {
	death := &event.ShortEvent{ID: "death_fall", EventText: "m_c fell from the Great Oak.", Main: constraint.Spec{Dies: true}}
	require.NoError(t, death.Compile(config.DefaultVocabulary()))
	src := event.Static{"death/general": {death}}

	c := newClan(t, 2)
	s := newSimulator(t, c, src, nil, config.SimulationConfig{EventTypes: []string{event.TypeDeath}, EventChance: 100})
	report, err := s.Moon(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"w0", "w1"}, report.Died)
	assert.Zero(t, c.LivingCount())
}

func TestMoonStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newClan(t, 2)
	s := newSimulator(t, c, event.Static{}, nil, config.SimulationConfig{InteractionsPerCat: 1})
	reports, err := s.Run(ctx, 3)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reports)
	assert.Equal(t, 0, s.Current())
	assert.Equal(t, 10, c.Age)
}
