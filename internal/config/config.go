package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	Biomes  = []string{"Forest", "Plains", "Mountainous", "Beach", "Wetlands", "Desert"}
	Seasons = []string{"Newleaf", "Greenleaf", "Leaf-fall", "Leaf-bare"}
)

// TierGroups are the value interval names, most negative first.
var TierGroups = []string{"extreme_neg", "mid_neg", "low_neg", "neutral", "low_pos", "mid_pos", "extreme_pos"}

type GameConfig struct {
	Version         int                   `yaml:"version"`
	Clan            ClanConfig            `yaml:"clan"`
	Catalog         CatalogConfig         `yaml:"catalog"`
	Database        DatabaseConfig        `yaml:"database"`
	Relationship    RelationshipConfig    `yaml:"relationship"`
	EventGeneration EventGenerationConfig `yaml:"event_generation"`
	DeathRelated    DeathConfig           `yaml:"death_related"`
	Simulation      SimulationConfig      `yaml:"simulation"`
}

type ClanConfig struct {
	Name       string `yaml:"name"`
	Biome      string `yaml:"biome"`
	Season     string `yaml:"season"`
	Age        int    `yaml:"age"`
	Reputation int    `yaml:"reputation"`
	Disasters  bool   `yaml:"disasters"`
	Roster     string `yaml:"roster"`
}

type CatalogConfig struct {
	Dir            string `yaml:"dir"`
	Locale         string `yaml:"locale"`
	FallbackLocale string `yaml:"fallback_locale"`
	Vocabulary     string `yaml:"vocabulary"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type IntensityAmounts struct {
	Low    int `yaml:"low"`
	Medium int `yaml:"medium"`
	High   int `yaml:"high"`
}

// Amount returns the configured change for an intensity name.
func (a IntensityAmounts) Amount(intensity string) int {
	switch intensity {
	case "low":
		return a.Low
	case "high":
		return a.High
	default:
		return a.Medium
	}
}

type Interval struct {
	Group string `yaml:"group"`
	Max   int    `yaml:"max"`
}

type RelationshipConfig struct {
	ValueChangeAmount   IntensityAmounts `yaml:"value_change_amount"`
	CompatibilityEffect int              `yaml:"compatibility_effect"`
	PassiveInfluenceDiv int              `yaml:"passive_influence_div"`
	ValueIntervals      []Interval       `yaml:"value_intervals"`
}

type EventGenerationConfig struct {
	DebugOverrideRequirements bool   `yaml:"debug_override_requirements"`
	DebugEnsureEventID        string `yaml:"debug_ensure_event_id"`
}

type DeathConfig struct {
	OldAgeDeathStart        int `yaml:"old_age_death_start"`
	LeaderFullDeathMinMoons int `yaml:"leader_full_death_min_moons"`
}

type SimulationConfig struct {
	Seed               uint64   `yaml:"seed"`
	InteractionsPerCat int      `yaml:"interactions_per_cat"`
	GroupInteractions  int      `yaml:"group_interactions"`
	EventTypes         []string `yaml:"event_types"`
	EventChance        int      `yaml:"event_chance"`
}

// DefaultIntervals are the stock tier cut-points.
func DefaultIntervals() []Interval {
	return []Interval{
		{Group: "extreme_neg", Max: -70},
		{Group: "mid_neg", Max: -30},
		{Group: "low_neg", Max: -10},
		{Group: "neutral", Max: 9},
		{Group: "low_pos", Max: 30},
		{Group: "mid_pos", Max: 69},
		{Group: "extreme_pos", Max: 100},
	}
}

// Defaults returns a config that passes validation on its own.
func Defaults() *GameConfig {
	return &GameConfig{
		Version: 1,
		Clan: ClanConfig{
			Name:      "Thunder",
			Biome:     "Forest",
			Season:    "Newleaf",
			Disasters: true,
		},
		Catalog: CatalogConfig{
			Dir:            "resources/lang",
			Locale:         "en",
			FallbackLocale: "en",
		},
		Relationship: RelationshipConfig{
			ValueChangeAmount:   IntensityAmounts{Low: 5, Medium: 10, High: 20},
			CompatibilityEffect: 2,
			PassiveInfluenceDiv: 4,
			ValueIntervals:      DefaultIntervals(),
		},
		DeathRelated: DeathConfig{
			OldAgeDeathStart:        150,
			LeaderFullDeathMinMoons: 150,
		},
		Simulation: SimulationConfig{
			InteractionsPerCat: 2,
			GroupInteractions:  1,
			EventTypes:         []string{"death", "injury", "misc", "new_cat"},
			EventChance:        10,
		},
	}
}

func LoadGameConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading game config: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("loading game config: %w", err)
	}

	if err := ValidateGameConfig(cfg); err != nil {
		return nil, fmt.Errorf("loading game config: %w", err)
	}

	return cfg, nil
}

func ValidateGameConfig(cfg *GameConfig) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if !slices.Contains(Biomes, cfg.Clan.Biome) {
		return fmt.Errorf("unknown biome: %s", cfg.Clan.Biome)
	}
	if !slices.Contains(Seasons, cfg.Clan.Season) {
		return fmt.Errorf("unknown season: %s", cfg.Clan.Season)
	}
	if strings.TrimSpace(cfg.Catalog.Locale) == "" {
		return fmt.Errorf("catalog locale is required")
	}

	amounts := cfg.Relationship.ValueChangeAmount
	if amounts.Low <= 0 || amounts.Medium <= 0 || amounts.High <= 0 {
		return fmt.Errorf("value change amounts must be positive")
	}
	if cfg.Relationship.PassiveInfluenceDiv == 0 {
		return fmt.Errorf("passive influence divisor must not be zero")
	}
	if err := validateIntervals(cfg.Relationship.ValueIntervals); err != nil {
		return err
	}

	if cfg.DeathRelated.OldAgeDeathStart <= 0 {
		return fmt.Errorf("old age death start must be positive")
	}
	if cfg.Simulation.InteractionsPerCat < 0 || cfg.Simulation.GroupInteractions < 0 {
		return fmt.Errorf("interactions per moon must not be negative")
	}
	if cfg.Simulation.EventChance < 0 || cfg.Simulation.EventChance > 100 {
		return fmt.Errorf("event chance must be between 0 and 100")
	}
	for i, eventType := range cfg.Simulation.EventTypes {
		if strings.TrimSpace(eventType) == "" {
			return fmt.Errorf("event type %d is empty", i)
		}
	}

	return nil
}

func validateIntervals(intervals []Interval) error {
	if len(intervals) != len(TierGroups) {
		return fmt.Errorf("expected %d value intervals, got %d", len(TierGroups), len(intervals))
	}
	for i, interval := range intervals {
		if interval.Group != TierGroups[i] {
			return fmt.Errorf("value interval %d must be %s, got %s", i, TierGroups[i], interval.Group)
		}
		if i > 0 && interval.Max <= intervals[i-1].Max {
			return fmt.Errorf("value intervals must be ascending: %s", interval.Group)
		}
	}
	if last := intervals[len(intervals)-1]; last.Max < 100 {
		return fmt.Errorf("last value interval must reach 100, got %d", last.Max)
	}
	return nil
}

// BiomeKey is the catalog file stem for a biome.
func BiomeKey(biome string) string {
	return strings.ToLower(biome)
}
