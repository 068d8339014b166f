package main

import (
	"fmt"
	"math/rand/v2"

	"clansim/internal/cat"
	"clansim/internal/catalog"
	"clansim/internal/clan"
	"clansim/internal/config"
	"clansim/internal/dice"
	"clansim/internal/event"
	"clansim/internal/interaction"
	"clansim/internal/relationship"
)

// world is everything a simulation run needs, built from one config file.
type world struct {
	cfg    *config.GameConfig
	clan   *clan.Clan
	rels   *relationship.Registry
	engine *interaction.Engine
	events *event.Generator
	rng    *rand.Rand
}

func loadConfig() (*config.GameConfig, error) {
	return config.LoadGameConfig(configPath)
}

func loadVocabulary(cfg *config.GameConfig) (*config.Vocabulary, error) {
	if cfg.Catalog.Vocabulary == "" {
		return config.DefaultVocabulary(), nil
	}
	return config.LoadVocabulary(cfg.Catalog.Vocabulary)
}

func catalogSource(cfg *config.GameConfig) *catalog.Source {
	return catalog.NewSource(cfg.Catalog.Dir, cfg.Catalog.Locale, cfg.Catalog.FallbackLocale)
}

// buildWorld loads the roster and wires the engines to one registry and one random source.
func buildWorld(cfg *config.GameConfig, seed uint64) (*world, error) {
	vocab, err := loadVocabulary(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Clan.Roster == "" {
		return nil, fmt.Errorf("clan.roster is required to simulate")
	}
	c, snapshots, err := clan.LoadRoster(cfg.Clan.Roster, cfg.Clan, vocab)
	if err != nil {
		return nil, err
	}

	rels := relationship.NewRegistry(relationship.NewTiers(cfg.Relationship.ValueIntervals))
	if err := rels.Load(snapshots); err != nil {
		return nil, fmt.Errorf("loading roster relationships: %w", err)
	}

	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	rng := dice.New(seed)
	src := catalogSource(cfg)
	rules := cat.NewTraitRules(vocab.Compatibility)

	return &world{
		cfg:  cfg,
		clan: c,
		rels: rels,
		engine: interaction.NewEngine(interaction.Options{
			Source:   interaction.NewCache(src, vocab),
			Rules:    rules,
			Registry: rels,
			Config:   cfg.Relationship,
			Rand:     rng,
		}),
		events: event.NewGenerator(event.Options{
			Source:     event.NewCache(src, vocab),
			Clan:       c,
			Registry:   rels,
			Rules:      rules,
			Vocabulary: vocab,
			Config:     event.Config{Generation: cfg.EventGeneration, Death: cfg.DeathRelated},
			Rand:       rng,
		}),
		rng: rng,
	}, nil
}
