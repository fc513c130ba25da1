package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/urlpool/internal/shortener"
)

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed mapping store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Save(ctx context.Context, shortURL *shortener.ShortURL) error {
	query := `
		INSERT INTO short_urls (code, long_url, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE
		SET long_url = EXCLUDED.long_url, expires_at = EXCLUDED.expires_at
	`

	_, err := p.pool.Exec(ctx, query,
		string(shortURL.Code),
		shortURL.LongURL,
		shortURL.ExpiresAt,
		shortURL.CreatedAt,
	)

	return err
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	query := `
		SELECT code, long_url, expires_at, created_at
		FROM short_urls
		WHERE code = $1
	`

	var url shortener.ShortURL

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(
		&url.Code,
		&url.LongURL,
		&url.ExpiresAt,
		&url.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &url, nil
}

func (p *PostgresStore) DeleteExpiredBefore(ctx context.Context, now time.Time) ([]shortener.ShortURL, error) {
	query := `
		DELETE FROM short_urls
		WHERE expires_at IS NOT NULL AND expires_at < $1
		RETURNING code, long_url, expires_at, created_at
	`

	rows, err := p.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deleted []shortener.ShortURL

	for rows.Next() {
		var url shortener.ShortURL

		if err := rows.Scan(&url.Code, &url.LongURL, &url.ExpiresAt, &url.CreatedAt); err != nil {
			return nil, err
		}

		deleted = append(deleted, url)
	}

	return deleted, rows.Err()
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
