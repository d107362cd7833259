package storage

import "fmt"

// Open opens a store for the named driver. driver is "sqlite3" (dsn is a file
// path) or "postgres" (dsn is a connection string).
func Open(driver, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverSQLite, "sqlite":
		return OpenSQLite(dsn)
	case DriverPostgres, "postgresql":
		return OpenPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
