package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clansim/internal/status"
	"clansim/internal/store"
)

func queryStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <cat-id>",
		Short: "Show a cat's group and standing history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryStatus(cmd, args[0])
		},
	}
	return cmd
}

func runQueryStatus(cmd *cobra.Command, catID string) error {
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

	snap, err := db.GetStatus(ctx, catID)
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintf(os.Stdout, "No status stored for %q.\n", catID)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Groups:")
	for _, entry := range snap.GroupHistory {
		fmt.Fprintf(os.Stdout, "  %-4s %-24s %d moons (%s)\n", entry.Group, entry.Rank, entry.MoonsAs, status.KindOf(entry.Group))
	}
	fmt.Fprintln(os.Stdout, "Standing:")
	for _, entry := range snap.StandingHistory {
		near := ""
		if entry.Near {
			near = " near"
		}
		fmt.Fprintf(os.Stdout, "  %-4s %v%s\n", entry.Group, entry.Standing, near)
	}
	return nil
}
