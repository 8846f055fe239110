// Package postgres is the relational credential store built on pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/attireme/auth-service/internal/core/ports"
)

var _ ports.CredentialStore = (*Store)(nil)

// pool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it in tests.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// Store provides Postgres-backed persistence for identities and profiles.
type Store struct {
	pool pool
}

func NewStore(p pool) *Store {
	return &Store{pool: p}
}

// Connect opens a pool for databaseURL and applies the schema.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := Migrate(ctx, p); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS identities (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		user_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		email_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
		user_type TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS identities_email_unique_idx ON identities (email);`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		token_hash TEXT PRIMARY KEY,
		identity_id TEXT NOT NULL REFERENCES identities(id) ON DELETE CASCADE,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS refresh_tokens_identity_idx ON refresh_tokens (identity_id, created_at);`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		identity_id TEXT PRIMARY KEY REFERENCES identities(id) ON DELETE CASCADE,
		full_name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS creator_profiles (
		identity_id TEXT PRIMARY KEY REFERENCES identities(id) ON DELETE CASCADE,
		business_name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL DEFAULT ''
	);`,
}

// Migrate applies the idempotent schema statements.
func Migrate(ctx context.Context, p pool) error {
	for _, stmt := range schema {
		if _, err := p.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func isUniqueViolation(err error) bool { return hasCode(err, pgerrcode.UniqueViolation) }

func isForeignKeyViolation(err error) bool { return hasCode(err, pgerrcode.ForeignKeyViolation) }
