package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"clansim/internal/sim"
	"clansim/internal/store"
)

func simulateCmd() *cobra.Command {
	var moons int
	var seed uint64
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play moons from the roster and log what happens",
		RunE: func(cmd *cobra.Command, args []string) error {
			if moons < 1 {
				return fmt.Errorf("--moons must be at least 1")
			}
			return runSimulate(moons, seed, dryRun)
		},
	}
	cmd.Flags().IntVar(&moons, "moons", 12, "Number of moons to play")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0 uses the config seed, or a random one)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Do not write to the database")
	return cmd
}

func runSimulate(moons int, seed uint64, dryRun bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w, err := buildWorld(cfg, seed)
	if err != nil {
		return err
	}

	var db store.Store
	start := 0
	if !dryRun {
		db, err = openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)
		if start, err = db.LatestMoon(ctx); err != nil {
			return err
		}
	}

	simulator, err := sim.New(sim.Options{
		Clan:         w.clan,
		Interactions: w.engine,
		Events:       w.events,
		Store:        db,
		Config:       cfg.Simulation,
		Rand:         w.rng,
		StartMoon:    start,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, titleStyle.Render(fmt.Sprintf("%sClan, %s, %s", w.clan.Name, w.clan.Biome, w.clan.Season)))
	events, deaths := 0, 0
	for range moons {
		report, err := simulator.Moon(ctx)
		if err != nil {
			return err
		}
		printReport(w, report)
		events += len(report.Records)
		deaths += len(report.Died)
	}

	fmt.Fprintln(os.Stdout, summaryStyle.Render(fmt.Sprintf(
		"%d moons played, %d events, %d deaths\n%d cats living, %d relationships, clan age %d",
		moons, events, deaths, w.clan.LivingCount(), w.rels.Len(), w.clan.Age,
	)))
	return nil
}

func printReport(w *world, report *sim.Report) {
	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, moonStyle.Render(fmt.Sprintf("Moon %d", report.Moon)))
	for _, rec := range report.Records {
		fmt.Fprintf(os.Stdout, "  %s %s\n", rec.Text, typeStyle.Render("["+strings.Join(rec.Types, " ")+"]"))
	}
	for _, id := range report.Died {
		name := id
		if c, ok := w.clan.Get(id); ok {
			name = c.Name
		}
		fmt.Fprintf(os.Stdout, "  %s\n", deathStyle.Render(name+" has died."))
	}
}
