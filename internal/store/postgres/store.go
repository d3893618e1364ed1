// Package postgres provides the PostgreSQL implementation of the
// history store.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/goksnair/resume-builder-ai-sub005/internal/store"
)

// PostgresStore implements store.Store using PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger

	events  *EventStore
	reports *ReportStore
}

// Config holds PostgreSQL connection configuration.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(dsn string) *Config {
	return &Config{
		DSN:             dsn,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// NewPostgresStore opens the database, verifies the connection, and
// ensures the history tables exist.
func NewPostgresStore(cfg *Config, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &PostgresStore{
		db:     db,
		logger: logger,
	}
	s.events = &EventStore{db: db, logger: logger}
	s.reports = &ReportStore{db: db, logger: logger}

	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("connected to PostgreSQL history store")
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS scaling_events (
			id UUID PRIMARY KEY,
			service_id TEXT NOT NULL,
			occurred_at TIMESTAMPTZ NOT NULL,
			action TEXT NOT NULL,
			from_instances INT NOT NULL,
			to_instances INT NOT NULL,
			reason TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS scaling_events_occurred_at_idx
			ON scaling_events (occurred_at DESC)`,
		`CREATE TABLE IF NOT EXISTS optimization_reports (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			ticks INT NOT NULL,
			document JSONB NOT NULL
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensuring history schema: %w", err)
		}
	}
	return nil
}

// Events returns the EventStore.
func (s *PostgresStore) Events() store.EventStore {
	return s.events
}

// Reports returns the ReportStore.
func (s *PostgresStore) Reports() store.ReportStore {
	return s.reports
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
