package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadGameConfig(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		cfg, err := LoadGameConfig(filepath.Join("testdata", "valid_config.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Clan.Biome != "Wetlands" {
			t.Fatalf("expected biome, got %q", cfg.Clan.Biome)
		}
		if cfg.Relationship.ValueChangeAmount.Amount("high") != 16 {
			t.Fatalf("expected high amount 16, got %d", cfg.Relationship.ValueChangeAmount.High)
		}
		if len(cfg.Relationship.ValueIntervals) != len(TierGroups) {
			t.Fatalf("expected default intervals to survive a partial relationship block")
		}
		if cfg.Simulation.Seed != 42 {
			t.Fatalf("expected seed 42, got %d", cfg.Simulation.Seed)
		}
	})

	t.Run("defaults validate", func(t *testing.T) {
		if err := ValidateGameConfig(Defaults()); err != nil {
			t.Fatalf("expected defaults to validate, got %v", err)
		}
	})

	t.Run("unknown biome", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nclan:\n  biome: Tundra\n")
		if _, err := LoadGameConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown season", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nclan:\n  season: Winter\n")
		if _, err := LoadGameConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		path := writeTempConfig(t, "version: 2\n")
		if _, err := LoadGameConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("zero divisor", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nrelationship:\n  passive_influence_div: 0\n")
		if _, err := LoadGameConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("intervals out of order", func(t *testing.T) {
		path := writeTempConfig(t, `version: 1
relationship:
  value_intervals:
    - {group: extreme_neg, max: -70}
    - {group: mid_neg, max: -30}
    - {group: low_neg, max: -40}
    - {group: neutral, max: 9}
    - {group: low_pos, max: 30}
    - {group: mid_pos, max: 69}
    - {group: extreme_pos, max: 100}
`)
		if _, err := LoadGameConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("intervals with wrong group", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nrelationship:\n  value_intervals:\n    - {group: neutral, max: 100}\n")
		if _, err := LoadGameConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("event chance above 100", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nsimulation:\n  event_chance: 101\n")
		if _, err := LoadGameConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("file not found", func(t *testing.T) {
		if _, err := LoadGameConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeTempConfig(t, "clan: [\n")
		if _, err := LoadGameConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestIntensityAmounts(t *testing.T) {
	amounts := IntensityAmounts{Low: 1, Medium: 2, High: 3}
	if amounts.Amount("low") != 1 || amounts.Amount("medium") != 2 || amounts.Amount("high") != 3 {
		t.Fatalf("unexpected amounts")
	}
	if amounts.Amount("unknown") != 2 {
		t.Fatalf("expected unknown intensity to fall back to medium")
	}
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "clansim.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
