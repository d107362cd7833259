package storage

import (
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// dialect captures the SQL differences between backends. Queries are written
// with ? placeholders and rebound by sqlx for the active driver.
type dialect struct {
	driver string

	// lockSuffix is appended to SELECTs that must hold a row lock. SQLite
	// takes the database write lock at BEGIN, so it needs none.
	lockSuffix string

	isUniqueViolation func(error) bool
}

var sqliteDialect = dialect{
	driver:     DriverSQLite,
	lockSuffix: "",
	isUniqueViolation: func(err error) bool {
		var sqliteErr sqlite3.Error
		if !errors.As(err, &sqliteErr) {
			return false
		}
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	},
}

var postgresDialect = dialect{
	driver:     DriverPostgres,
	lockSuffix: " FOR UPDATE",
	isUniqueViolation: func(err error) bool {
		var pqErr *pq.Error
		if !errors.As(err, &pqErr) {
			return false
		}
		return pqErr.Code == "23505"
	},
}
