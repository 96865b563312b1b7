package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/studytrack/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Driver names as registered with database/sql
const (
	driverSQLite   = "sqlite3"
	driverPostgres = "postgres"
)

// Connect opens the configured store
func Connect(cfg *config.Config) (*sqlx.DB, error) {
	switch cfg.DBType {
	case config.DBTypePostgres:
		db, err := sqlx.Connect(driverPostgres, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return db, nil
	default:
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		return OpenSQLite(cfg.DBPath)
	}
}

// OpenSQLite opens a sqlite database file (or ":memory:")
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// SQLite doesn't support multiple writers; a single connection also keeps
	// an in-memory database alive for the lifetime of the handle.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return db, nil
}

func isPostgres(db sqlx.ExtContext) bool {
	return db.DriverName() == driverPostgres
}

// WithTx runs fn inside a transaction, rolling back on error
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertReturningID runs an INSERT ... RETURNING id statement
func insertReturningID(ctx context.Context, ext sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	var id int64
	if err := ext.QueryRowxContext(ctx, ext.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
