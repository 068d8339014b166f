package main

import "github.com/spf13/cobra"

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query a simulation's store from the CLI",
	}
	cmd.AddCommand(queryRelationsCmd())
	cmd.AddCommand(queryEventsCmd())
	cmd.AddCommand(querySearchCmd())
	cmd.AddCommand(queryStatusCmd())
	cmd.AddCommand(querySQLCmd())
	return cmd
}
