package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of pgxpool.Pool used for schema setup.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const createRealmSnapshots = `
	CREATE TABLE IF NOT EXISTS realm_snapshots (
		run_id        UUID        NOT NULL,
		slug          TEXT        NOT NULL,
		last_modified BIGINT      NOT NULL,
		auction_count BIGINT      NOT NULL,
		buyout_total  BIGINT      NOT NULL,
		items         BIGINT      NOT NULL,
		player_count  INTEGER     NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (run_id, slug)
	)
`

const createPlayerSnapshots = `
	CREATE TABLE IF NOT EXISTS player_snapshots (
		run_id        UUID   NOT NULL,
		slug          TEXT   NOT NULL,
		player        TEXT   NOT NULL,
		player_realm  TEXT   NOT NULL,
		auction_count BIGINT NOT NULL,
		buyout_total  BIGINT NOT NULL,
		items         BIGINT NOT NULL,
		PRIMARY KEY (run_id, slug, player, player_realm)
	)
`

// Statements lists the schema DDL in execution order.
var Statements = []struct {
	Name string
	SQL  string
}{
	{Name: "realm_snapshots", SQL: createRealmSnapshots},
	{Name: "player_snapshots", SQL: createPlayerSnapshots},
}

// EnsureSchema creates the sink tables if they do not exist.
func EnsureSchema(ctx context.Context, db Execer) error {
	for _, stmt := range Statements {
		if _, err := db.Exec(ctx, stmt.SQL); err != nil {
			return fmt.Errorf("create %s table: %w", stmt.Name, err)
		}
	}
	return nil
}
