package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema for the code pool and mapping tables. Partial indexes keep the
// free-slot claim and the expiry scan off full table scans.
const schema = `
CREATE TABLE IF NOT EXISTS code_pool (
	id bigserial PRIMARY KEY,
	short_code varchar(8) NOT NULL UNIQUE,
	used boolean NOT NULL DEFAULT false,
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS short_urls (
	code varchar(8) PRIMARY KEY,
	long_url text NOT NULL,
	expires_at timestamptz,
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_code_pool_free
	ON code_pool (created_at) WHERE used = false;

CREATE INDEX IF NOT EXISTS idx_short_urls_expires
	ON short_urls (expires_at) WHERE expires_at IS NOT NULL;
`

// Migrate creates the tables used by the pool and mapping stores.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)

	return err
}
