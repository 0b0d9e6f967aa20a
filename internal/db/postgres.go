package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PingPostgres opens a single pgx connection, runs a trivial query and
// reports the server version.
func PingPostgres(ctx context.Context, t *Target) (any, error) {
	config, err := pgx.ParseConfig(t.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	defer conn.Close(context.WithoutCancel(ctx))

	var one int
	if err := conn.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return nil, fmt.Errorf("health query failed: %w", err)
	}

	var version string
	if err := conn.QueryRow(ctx, "SHOW server_version").Scan(&version); err != nil {
		return nil, fmt.Errorf("version query failed: %w", err)
	}

	return map[string]any{
		"database":       config.Database,
		"server_version": version,
	}, nil
}
