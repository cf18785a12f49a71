package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPgxPool opens the pool backing the ledger's postgres store. With
// pingOnStart the server is contacted before returning, so a bad PGSQL_URL
// fails at startup instead of on the first ledger read.
func NewPgxPool(ctx context.Context, databaseURL string, pingOnStart bool) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL is required for the postgres store driver")
	}

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ledger database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger connection pool: %w", err)
	}

	attrs := []any{
		slog.String("host", poolCfg.ConnConfig.Host),
		slog.String("database", poolCfg.ConnConfig.Database),
		slog.Int("max_conns", int(poolCfg.MaxConns)),
	}
	if pingOnStart {
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to reach ledger database: %w", err)
		}
		slog.Info("Ledger database reachable", attrs...)
	} else {
		slog.Debug("Ledger connection pool created without ping", attrs...)
	}

	return pool, nil
}

// ClosePgxPool releases the ledger pool. A nil pool is ignored.
func ClosePgxPool(pool *pgxpool.Pool) {
	if pool == nil {
		return
	}
	pool.Close()
	slog.Info("Ledger connection pool closed")
}
