// Package database records price history in PostgreSQL.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mswatii/cs2-craftcalc/internal/models"
)

// DefaultHistoryLimit bounds History when the caller passes no limit
const DefaultHistoryLimit = 100

type Database struct {
	pool *pgxpool.Pool
}

// NewDatabase creates a new database connection
func NewDatabase(ctx context.Context, connString string) (*Database, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Database{pool: pool}, nil
}

// Close closes the database connection
func (db *Database) Close() {
	db.pool.Close()
}

// CreateTables creates the necessary tables if they don't exist
func (db *Database) CreateTables(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS price_snapshots (
			id BIGSERIAL PRIMARY KEY,
			market_hash_name VARCHAR(255) NOT NULL,
			display_name VARCHAR(255) NOT NULL,
			line VARCHAR(64) NOT NULL,
			price DECIMAL(12,2) NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating price_snapshots table: %w", err)
	}

	_, err = db.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_price_snapshots_hash_time
		ON price_snapshots (market_hash_name, fetched_at DESC)
	`)
	if err != nil {
		return fmt.Errorf("error creating price_snapshots index: %w", err)
	}

	return nil
}

// InsertSnapshots records a refresh batch in one round trip
func (db *Database) InsertSnapshots(ctx context.Context, snapshots []models.PriceSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, s := range snapshots {
		at := s.FetchedAt
		if at.IsZero() {
			at = now
		}
		batch.Queue(`
			INSERT INTO price_snapshots (market_hash_name, display_name, line, price, fetched_at)
			VALUES ($1, $2, $3, $4, $5)
		`, s.MarketHashName, s.DisplayName, s.Line, s.Price, at)
	}
	if err := db.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("error inserting snapshots: %w", err)
	}
	return nil
}

// LatestSnapshots returns the newest snapshot of every item of a line
func (db *Database) LatestSnapshots(ctx context.Context, line string) ([]models.PriceSnapshot, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT DISTINCT ON (market_hash_name)
			id, market_hash_name, display_name, line, price::float8, fetched_at
		FROM price_snapshots
		WHERE line = $1
		ORDER BY market_hash_name, fetched_at DESC, id DESC
	`, line)
	if err != nil {
		return nil, fmt.Errorf("error querying latest snapshots: %w", err)
	}
	return collect(rows)
}

// History returns up to limit snapshots of one item, newest first
func (db *Database) History(ctx context.Context, marketHash string, limit int) ([]models.PriceSnapshot, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rows, err := db.pool.Query(ctx, `
		SELECT id, market_hash_name, display_name, line, price::float8, fetched_at
		FROM price_snapshots
		WHERE market_hash_name = $1
		ORDER BY fetched_at DESC, id DESC
		LIMIT $2
	`, marketHash, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying history: %w", err)
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]models.PriceSnapshot, error) {
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PriceSnapshot, error) {
		var s models.PriceSnapshot
		err := row.Scan(&s.ID, &s.MarketHashName, &s.DisplayName, &s.Line, &s.Price, &s.FetchedAt)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning snapshots: %w", err)
	}
	return out, nil
}
