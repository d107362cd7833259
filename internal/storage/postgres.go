package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ValidateConnString checks that connStr is a parseable PostgreSQL URL or
// key/value connection string without connecting.
func ValidateConnString(connStr string) error {
	if connStr == "" {
		return fmt.Errorf("postgres connection string is empty")
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("invalid postgres connection string: %w", err)
	}
	return nil
}

// OpenPostgres connects to PostgreSQL and brings the schema up to date.
func OpenPostgres(connStr string) (*SQLStore, error) {
	if err := ValidateConnString(connStr); err != nil {
		return nil, err
	}

	db, err := sqlx.Open(DriverPostgres, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := RunMigrations(db, postgresDialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return newSQLStore(db, postgresDialect), nil
}
