package main

import (
	"context"
	"fmt"

	"sidequest/internal/config"
	"sidequest/internal/store"
	"sidequest/internal/store/postgres"
	"sidequest/internal/store/sqlite"
)

// openStore connects the backend named by the DSN scheme and ensures its
// tables exist.
func openStore(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	backend, err := cfg.Database.Backend()
	if err != nil {
		return nil, err
	}

	var db store.Store
	switch backend {
	case config.BackendPostgres:
		db, err = postgres.New(ctx, cfg.Database.DSN)
	case config.BackendSQLite:
		db, err = sqlite.New(ctx, cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported backend %q", backend)
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
