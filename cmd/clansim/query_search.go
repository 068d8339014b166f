package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func querySearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search event text using the full-text index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuerySearch(cmd, strings.Join(args, " "))
		},
	}
	return cmd
}

func runQuerySearch(cmd *cobra.Command, query string) error {
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

	results, err := db.SearchEvents(ctx, query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stdout, "No matches found.")
		return nil
	}

	for _, result := range results {
		fmt.Fprintf(os.Stdout, "[moon %d] %s (%s) score=%.2f\n", result.Moon, result.Snippet, result.EventID, result.Score)
	}
	return nil
}
