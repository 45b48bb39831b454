// Package postgres implements the kv.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/groblegark/knotes/internal/kv"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements kv.Store backed by a single kv_store table.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements kv.Store.
var _ kv.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	return queryGet(ctx, s.db, key)
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	return querySet(ctx, s.db, key, value)
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	return queryDelete(ctx, s.db, key)
}

func (s *PostgresStore) DeleteMany(ctx context.Context, keys []string) error {
	return queryDeleteMany(ctx, s.db, keys)
}

func (s *PostgresStore) ScanPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	return queryScanPrefix(ctx, s.db, prefix)
}
