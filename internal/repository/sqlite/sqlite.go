// Package sqlite stores the punch snapshot and employee directory in a local
// SQLite file. It backs offline installs and the shiftcalc CLI; the schema
// mirrors the PostgreSQL one.
package sqlite

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps a SQLite handle. SQLite allows one writer at a time, so writes
// take the lock exclusively.
type DB struct {
	*sql.DB
	mu sync.RWMutex
}

// Open opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for a throwaway database.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	conn.SetMaxOpenConns(1)

	db := &DB{DB: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS punches (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		punch_date TEXT NOT NULL,
		punch_time TEXT NOT NULL DEFAULT '',
		punch_timestamp_utc TEXT NOT NULL DEFAULT '',
		att_date TEXT NOT NULL DEFAULT '',
		attendance_status TEXT NOT NULL DEFAULT '',
		punch_from TEXT NOT NULL,
		ignored INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_punches_date ON punches(punch_date);

	CREATE TABLE IF NOT EXISTS employees (
		employee_code TEXT PRIMARY KEY,
		full_name TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL DEFAULT '',
		position TEXT NOT NULL DEFAULT '',
		bank_account_holder_name TEXT,
		iban TEXT NOT NULL DEFAULT '',
		bic TEXT NOT NULL DEFAULT '',
		employment_status TEXT NOT NULL DEFAULT 'active'
	);
	`
	_, err := db.Exec(schema)
	return err
}

// withTx runs fn in a transaction, rolling back on error.
func (db *DB) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
