// Package postgres is the card store backed by a pgx connection pool.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"sidequest/internal/store"
)

var _ store.Store = (*Client)(nil)

// applicationName tags sidequest sessions in pg_stat_activity.
const applicationName = "sidequest"

type Client struct {
	pool *pgxpool.Pool
}

// New connects to the postgres:// DSN and checks the server is reachable.
// An application_name in the DSN wins over the default.
func New(ctx context.Context, dsn string) (*Client, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres DSN: %w", err)
	}
	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres %s: %w", cfg.ConnConfig.Host, err)
	}
	return &Client{pool: pool}, nil
}

// Close waits for acquired connections to be released.
func (c *Client) Close(ctx context.Context) error {
	c.pool.Close()
	return nil
}
