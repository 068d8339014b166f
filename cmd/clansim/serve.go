package main

import (
	"context"

	"github.com/spf13/cobra"

	"clansim/internal/mcp"
	"clansim/internal/relationship"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
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

	tiers := relationship.NewTiers(cfg.Relationship.ValueIntervals)
	server := mcp.NewServer(db, tiers, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
