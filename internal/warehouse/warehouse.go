// Package warehouse owns the star-schema DuckDB store and its idempotent
// upsert logic. It is the only writer; re-running a load over the same or
// overlapping input converges to the same state.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2" // duckdb driver
)

// Warehouse provides dimensional storage operations over a single DuckDB
// file. Not safe for concurrent pipeline invocations; a run is assumed to
// hold the store exclusively.
type Warehouse struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open connects to the DuckDB file at path, creating parent directories
// and initializing the schema. An empty path opens an in-memory database.
func Open(path string, logger *slog.Logger) (*Warehouse, error) {
	if path == "" {
		path = ":memory:"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create warehouse directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w := &Warehouse{db: db, path: path, logger: logger}

	if err := w.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return w, nil
}

// initSchema creates the sequences, tables, and indexes if absent. The
// schema is declared once and assumed stable across runs.
func (w *Warehouse) initSchema(ctx context.Context) error {
	statements := []string{
		sequences,
		dimEventTypesSchema, dimDatesSchema, dimUsersSchema,
		dimCustomersSchema, dimProductsSchema,
		factEventsSchema, factEventsIndexes,
		factIntlSalesSchema, factIntlSalesIndexes,
	}
	for _, stmt := range statements {
		if _, err := w.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Health checks the database connection.
func (w *Warehouse) Health(ctx context.Context) error {
	return w.db.PingContext(ctx)
}

// Close closes the database connection.
func (w *Warehouse) Close() error {
	return w.db.Close()
}

// DB returns the underlying sql.DB for read-only queries.
func (w *Warehouse) DB() *sql.DB {
	return w.db
}

// withTx runs fn inside a transaction. All rows of a batch commit
// together or the batch rolls back; a partially applied dimension would
// feed inconsistent foreign-key resolution in the next step.
func (w *Warehouse) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return newLoadError(op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return newLoadError(op, err)
	}
	if err := tx.Commit(); err != nil {
		return newLoadError(op, err)
	}
	return nil
}
