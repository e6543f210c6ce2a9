// Package sqlite is the zero-setup card store backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sidequest/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Client)(nil)

// openTimeout bounds the initial ping and pragma setup.
const openTimeout = 30 * time.Second

type Client struct {
	db *sql.DB
}

// New opens the card database named by a sqlite:// DSN. An in-memory
// database is pinned to a single connection so every query sees the same
// tables.
func New(ctx context.Context, dsn string) (*Client, error) {
	driverDSN, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}
	memory := driverDSN == memoryDSN

	db, err := sql.Open("sqlite", driverDSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()
	if err := configure(ctx, db, memory); err != nil {
		db.Close()
		return nil, err
	}
	return &Client{db: db}, nil
}

// configure checks the connection and sets the pragmas card writes rely on.
// WAL only applies to file databases.
func configure(ctx context.Context, db *sql.DB, memory bool) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging sqlite: %w", err)
	}
	pragmas := []string{"PRAGMA busy_timeout = 30000;"}
	if !memory {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL;", "PRAGMA synchronous = NORMAL;")
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close()
}
