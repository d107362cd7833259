package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// sqlitePragmas are appended to every SQLite DSN. _txlock=immediate makes
// BEGIN take the write lock, which serializes concurrent completions.
const sqlitePragmas = "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_synchronous=NORMAL&_txlock=immediate"

// OpenSQLite opens (creating if needed) a SQLite database at path and brings
// its schema up to date.
func OpenSQLite(path string) (*SQLStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if path == ":memory:" {
		return nil, fmt.Errorf("in-memory sqlite is not supported: each pooled connection would see its own database")
	}

	file := path
	if i := strings.Index(file, "?"); i >= 0 {
		file = file[:i]
	}
	file = strings.TrimPrefix(file, "file:")
	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	connStr := path
	if !strings.Contains(path, "?") {
		connStr += "?"
	} else {
		connStr += "&"
	}
	connStr += sqlitePragmas

	db, err := sqlx.Open(DriverSQLite, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := RunMigrations(db, sqliteDialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return newSQLStore(db, sqliteDialect), nil
}
