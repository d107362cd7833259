package storage

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Migration represents a single database migration.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS _migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at TEXT NOT NULL
)`

// RunMigrations executes all pending migrations for the dialect's driver.
// Each migration runs in its own transaction together with its version row.
func RunMigrations(db *sqlx.DB, d dialect) error {
	if _, err := db.Exec(createMigrationsTable); err != nil {
		return fmt.Errorf("failed to create _migrations table: %w", err)
	}

	currentVersion, err := GetCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	migrations, err := loadMigrations(migrationDir(d))
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		if err := applyMigration(db, migration); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w",
				migration.Version, migration.Name, err)
		}
	}

	return nil
}

// GetCurrentVersion returns the highest applied schema version, or 0 for a
// fresh database.
func GetCurrentVersion(db *sqlx.DB) (int, error) {
	var version int
	if err := db.Get(&version, "SELECT COALESCE(MAX(version), 0) FROM _migrations"); err != nil {
		return 0, fmt.Errorf("failed to query version: %w", err)
	}
	return version, nil
}

// LatestVersion returns the newest migration version embedded for driver.
func LatestVersion(driver string) (int, error) {
	d := sqliteDialect
	if driver == DriverPostgres {
		d = postgresDialect
	}
	migrations, err := loadMigrations(migrationDir(d))
	if err != nil {
		return 0, err
	}
	latest := 0
	for _, m := range migrations {
		if m.Version > latest {
			latest = m.Version
		}
	}
	return latest, nil
}

func migrationDir(d dialect) string {
	if d.driver == DriverPostgres {
		return "migrations/postgres"
	}
	return "migrations/sqlite"
}

// loadMigrations reads all migration files in dir of the embedded filesystem.
func loadMigrations(dir string) ([]Migration, error) {
	entries, err := migrationsFS.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		version, err := extractVersion(name)
		if err != nil {
			return nil, fmt.Errorf("failed to extract version from %s: %w", name, err)
		}

		content, err := migrationsFS.ReadFile(path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    name,
			SQL:     string(content),
		})
	}

	return migrations, nil
}

// extractVersion parses the version number from a migration filename.
// Expected format: NNN_description.sql (e.g., 001_initial_schema.sql -> 1)
func extractVersion(filename string) (int, error) {
	name := strings.TrimSuffix(filename, ".sql")

	parts := strings.SplitN(name, "_", 2)
	if len(parts) < 2 || parts[0] == "" {
		return 0, fmt.Errorf("invalid migration filename format: %s", filename)
	}

	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid version number in filename %s: %w", filename, err)
	}

	return version, nil
}

// applyMigration executes a single migration within a transaction.
func applyMigration(db *sqlx.DB, migration Migration) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(migration.SQL); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("migration failed: %v (rollback also failed: %w)", err, rbErr)
		}
		return fmt.Errorf("migration SQL execution failed: %w", err)
	}

	record := tx.Rebind(`INSERT INTO _migrations (version, name, applied_at) VALUES (?, ?, ?)`)
	if _, err := tx.Exec(record, migration.Version, migration.Name, time.Now().UTC().Format(time.RFC3339)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("recording migration failed: %v (rollback also failed: %w)", err, rbErr)
		}
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	return nil
}
