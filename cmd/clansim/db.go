package main

import (
	"context"
	"fmt"
	"strings"

	"clansim/internal/config"
	"clansim/internal/store"
	"clansim/internal/store/postgres"
	"clansim/internal/store/sqlite"
)

// openDB picks the store from the DSN scheme and makes sure its schema exists.
func openDB(ctx context.Context, cfg *config.GameConfig) (store.Store, error) {
	dsn := cfg.Database.DSN
	var (
		db  store.Store
		err error
	)
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		db, err = sqlite.New(ctx, dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err = postgres.New(ctx, dsn)
	case dsn == "":
		return nil, fmt.Errorf("database.dsn is required")
	default:
		return nil, fmt.Errorf("unsupported database DSN scheme: %s", dsn)
	}
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close(ctx)
		return nil, err
	}
	return db, nil
}
