package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"clansim/internal/store"
)

func queryEventsCmd() *cobra.Command {
	var filter store.EventFilter
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List logged events, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryEvents(cmd, filter)
		},
	}
	cmd.Flags().StringVar(&filter.CatID, "cat", "", "Only events involving this cat")
	cmd.Flags().StringVar(&filter.Type, "type", "", "Only events of this type")
	cmd.Flags().IntVar(&filter.FromMoon, "from", 0, "First moon to include")
	cmd.Flags().IntVar(&filter.ToMoon, "to", 0, "Last moon to include")
	cmd.Flags().IntVar(&filter.Limit, "limit", store.DefaultEventLimit, "Maximum number of events")
	return cmd
}

func runQueryEvents(cmd *cobra.Command, filter store.EventFilter) error {
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

	records, err := db.ListEvents(ctx, filter)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "No events found.")
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(os.Stdout, "[moon %d] %s (%s) [%s]\n", rec.Moon, rec.Text, rec.EventID, strings.Join(rec.Types, ", "))
	}
	return nil
}
