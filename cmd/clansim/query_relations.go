package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clansim/internal/relationship"
	"clansim/internal/store"
)

func queryRelationsCmd() *cobra.Command {
	var showLog bool
	cmd := &cobra.Command{
		Use:   "relations <cat-id> [other-cat-id]",
		Short: "Display a cat's relationships, or one cat's view of another",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryRelations(cmd, args, showLog)
		},
	}
	cmd.Flags().BoolVar(&showLog, "log", false, "Print each relationship's log")
	return cmd
}

func runQueryRelations(cmd *cobra.Command, args []string, showLog bool) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	var rels []store.Relationship
	if len(args) == 2 {
		rel, err := db.GetRelationship(ctx, args[0], args[1])
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(os.Stdout, "No relationship from %q to %q.\n", args[0], args[1])
			return nil
		}
		if err != nil {
			return err
		}
		rels = append(rels, *rel)
	} else {
		rels, err = db.ListRelationships(ctx, args[0])
		if err != nil {
			return err
		}
	}
	if len(rels) == 0 {
		fmt.Fprintf(os.Stdout, "No relationships found for %q.\n", args[0])
		return nil
	}

	tiers := relationship.NewTiers(cfg.Relationship.ValueIntervals)
	for _, rel := range rels {
		fmt.Fprintf(os.Stdout, "[moon %d] %s -> %s", rel.Moon, rel.From, rel.To)
		if rel.Mates {
			fmt.Fprint(os.Stdout, " (mates)")
		}
		if rel.Family {
			fmt.Fprint(os.Stdout, " (family)")
		}
		fmt.Fprintln(os.Stdout)
		values := map[relationship.Dimension]int{
			relationship.Romance: rel.Romance,
			relationship.Like:    rel.Like,
			relationship.Respect: rel.Respect,
			relationship.Trust:   rel.Trust,
			relationship.Comfort: rel.Comfort,
		}
		for _, d := range relationship.Dimensions {
			fmt.Fprintf(os.Stdout, "    %-8s %4d  %s\n", d, values[d], tiers.Classify(d, values[d]))
		}
		if showLog {
			for _, line := range rel.Log {
				fmt.Fprintf(os.Stdout, "    | %s\n", line)
			}
		}
	}
	return nil
}
