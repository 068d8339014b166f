package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"clansim/internal/config"
)

const rosterPath = "roster.yaml"

const sampleRoster = `leader_lives: 9
other_clans:
  - {name: River, relations: 10, temperament: cunning}
  - {name: Wind, relations: 12, temperament: proud}
freshkill:
  amount: 30
herbs:
  cobwebs: 4
  poppy: 2
cats:
  - {id: leader, name: Bramblestar, moons: 70, gender: male, trait: ambitious, rank: leader, mates: [deputy]}
  - {id: deputy, name: Squirrelflight, moons: 64, gender: female, trait: bold, rank: deputy, mates: [leader]}
  - {id: healer, name: Leafpool, moons: 64, gender: female, trait: compassionate, rank: medicine cat}
  - {id: w1, name: Dustpelt, moons: 90, gender: male, trait: strict, rank: warrior}
  - {id: w2, name: Cloudtail, moons: 60, gender: male, trait: playful, rank: warrior}
  - {id: a1, name: Dovepaw, moons: 8, gender: female, trait: calm, rank: apprentice}
  - {id: e1, name: Mousefur, moons: 130, gender: female, trait: cold, rank: elder}
`

func initCmd() *cobra.Command {
	var clanName string
	var biome string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a config and a starting roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(clanName) == "" {
				return fmt.Errorf("--name is required")
			}
			if !slices.Contains(config.Biomes, biome) {
				return fmt.Errorf("unknown biome %q, expected one of %v", biome, config.Biomes)
			}
			return runInit(clanName, biome)
		},
	}
	cmd.Flags().StringVar(&clanName, "name", "", "Clan name")
	cmd.Flags().StringVar(&biome, "biome", "Forest", "Clan biome")
	return cmd
}

func runInit(clanName, biome string) error {
	for _, path := range []string{configPath, rosterPath} {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	cfg := config.Defaults()
	cfg.Clan.Name = clanName
	cfg.Clan.Biome = biome
	cfg.Clan.Roster = rosterPath
	cfg.Database.DSN = "sqlite://clansim.db"

	contents, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(configPath, contents, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	if err := os.WriteFile(rosterPath, []byte(sampleRoster), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", rosterPath, err)
	}

	fmt.Fprintf(os.Stdout, "Wrote %s and %s for %sClan.\n", configPath, rosterPath, clanName)
	return nil
}
