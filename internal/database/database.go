package database

import (
	"context"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS usage_samples (
	id            BIGSERIAL PRIMARY KEY,
	scenario_id   UUID             NOT NULL,
	scenario_name TEXT             NOT NULL,
	system_id     TEXT             NOT NULL,
	step          INTEGER          NOT NULL,
	timestamp     TIMESTAMPTZ      NOT NULL,
	device        TEXT             NOT NULL,
	usage_kwh     DOUBLE PRECISION NOT NULL,
	UNIQUE (scenario_id, step, device)
)`

func Connect(dsn string) (*sqlx.DB, error) {
	return sqlx.Connect("pgx", dsn)
}

// Migrate creates the archive table when it does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
