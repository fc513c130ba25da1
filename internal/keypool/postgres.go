package keypool

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// PostgresPool is a PostgreSQL implementation of Pool.
//
// Claim uses FOR UPDATE SKIP LOCKED so two concurrent claimants only
// contend when they would land on the same free row; everyone else moves
// on to a different slot.
type PostgresPool struct {
	db *pgxpool.Pool
}

// NewPostgresPool creates a PostgreSQL-backed code pool.
func NewPostgresPool(db *pgxpool.Pool) *PostgresPool {
	return &PostgresPool{db: db}
}

func (p *PostgresPool) Claim(ctx context.Context) (string, bool, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return "", false, err
	}

	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		SELECT short_code
		FROM code_pool
		WHERE used = false
		ORDER BY created_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`

	var code string

	err = tx.QueryRow(ctx, query).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}

		return "", false, err
	}

	if _, err = tx.Exec(ctx, `UPDATE code_pool SET used = true WHERE short_code = $1`, code); err != nil {
		return "", false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return "", false, err
	}

	return code, true, nil
}

func (p *PostgresPool) Insert(ctx context.Context, code string) error {
	_, err := p.db.Exec(ctx, `INSERT INTO code_pool (short_code, used) VALUES ($1, true)`, code)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateCode
		}

		return err
	}

	return nil
}

func (p *PostgresPool) Release(ctx context.Context, code string) error {
	_, err := p.db.Exec(ctx, `UPDATE code_pool SET used = false WHERE short_code = $1`, code)

	return err
}

// Compile-time check.
var _ Pool = (*PostgresPool)(nil)
