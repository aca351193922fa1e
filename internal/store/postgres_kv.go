package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// PostgresKV KV backed by a single kv_store table
type PostgresKV struct {
	db *sql.DB
}

func NewPostgresKV(db *sql.DB) *PostgresKV { return &PostgresKV{db: db} }

// EnsureSchema creates the kv_store table if it does not exist
func (p *PostgresKV) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS kv_store (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			expires_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

func (p *PostgresKV) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM kv_store
		 WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`,
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrMiss
		}
		return "", err
	}
	return value, nil
}

func (p *PostgresKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: time.Now().Add(ttl), Valid: true}
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO kv_store (key, value, expires_at, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (key)
		 DO UPDATE SET value = EXCLUDED.value,
		               expires_at = EXCLUDED.expires_at,
		               updated_at = now()`,
		key, value, expiresAt,
	)
	return err
}

func (p *PostgresKV) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT key FROM kv_store
		 WHERE key LIKE $1 ESCAPE '\' AND (expires_at IS NULL OR expires_at > now())
		 ORDER BY key`,
		globToLike(pattern),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// globToLike turns a redis-style glob (* and ?) into a LIKE pattern
func globToLike(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteByte('%')
		case '?':
			b.WriteByte('_')
		case '%', '_', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
