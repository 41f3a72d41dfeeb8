package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/ets-hub/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.KV interface at compile time.
var _ storage.KV = (*Store)(nil)

// querier is the subset of *pgxpool.Pool the store uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides Postgres-backed persistence for session records.
type Store struct {
	db    querier
	close func()
}

// NewStore connects to databaseURL and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s, err := newStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	s.close = pool.Close
	return s, nil
}

func newStore(ctx context.Context, db querier) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS local_storage (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// Get fetches the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM local_storage WHERE key = $1;`
	var value string
	if err := s.db.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set upserts the value stored under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	const query = `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW();
	`
	if _, err := s.db.Exec(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM local_storage WHERE key = $1;`
	if _, err := s.db.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
