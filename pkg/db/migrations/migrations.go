package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/fadedpez/tucotable/internal/logging"
	"github.com/fadedpez/tucotable/internal/types"
)

//go:embed sql/*.sql
var ledgerSchema embed.FS

// Migration represents a database migration
type Migration struct {
	Version     string
	Description string
	SQL         string
}

// Migrator handles database migrations
type Migrator struct {
	db     *sql.DB
	source fs.FS
	dir    string
	logger *logging.Logger
}

// NewMigrator creates a migrator for the .sql files in dir of source
func NewMigrator(db *sql.DB, source fs.FS, dir string, logger *logging.Logger) *Migrator {
	if logger == nil {
		logger = logging.Default
	}
	return &Migrator{
		db:     db,
		source: source,
		dir:    dir,
		logger: logger,
	}
}

// NewLedgerMigrator creates a migrator for the built-in ledger schema
func NewLedgerMigrator(db *sql.DB, logger *logging.Logger) *Migrator {
	return NewMigrator(db, ledgerSchema, "sql", logger)
}

// Initialize creates the migrations table if it doesn't exist
func (m *Migrator) Initialize() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			version TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return types.WrapError(types.ErrDatabaseError, "error creating migrations table", err)
	}
	return nil
}

// GetAppliedMigrations returns a map of already applied migrations
func (m *Migrator) GetAppliedMigrations() (map[string]bool, error) {
	rows, err := m.db.Query("SELECT version FROM migrations")
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "error reading applied migrations", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, types.WrapError(types.ErrDatabaseError, "error scanning migration version", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// LoadMigrations loads all migration files, ordered by version
func (m *Migrator) LoadMigrations() ([]Migration, error) {
	entries, err := fs.ReadDir(m.source, m.dir)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "error listing migrations", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		content, err := fs.ReadFile(m.source, path.Join(m.dir, entry.Name()))
		if err != nil {
			return nil, types.WrapError(types.ErrDatabaseError, "error reading migration", err)
		}

		// Parse version and description from filename (e.g., "001_create_accounts.sql")
		parts := strings.SplitN(strings.TrimSuffix(entry.Name(), ".sql"), "_", 2)
		if len(parts) != 2 {
			return nil, types.NewGameError(types.ErrDatabaseError, fmt.Sprintf("invalid migration filename: %s", entry.Name()))
		}

		migrations = append(migrations, Migration{
			Version:     parts[0],
			Description: strings.ReplaceAll(parts[1], "_", " "),
			SQL:         string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// ApplyMigration applies a single migration and records it in one transaction
func (m *Migrator) ApplyMigration(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return types.WrapError(types.ErrDatabaseError, "error starting migration", err)
	}

	if _, err := tx.Exec(migration.SQL); err != nil {
		tx.Rollback()
		return types.WrapError(types.ErrDatabaseError, fmt.Sprintf("error applying migration %s", migration.Version), err)
	}

	_, err = tx.Exec(
		"INSERT INTO migrations (version, description) VALUES (?, ?)",
		migration.Version,
		migration.Description,
	)
	if err != nil {
		tx.Rollback()
		return types.WrapError(types.ErrDatabaseError, fmt.Sprintf("error recording migration %s", migration.Version), err)
	}

	return tx.Commit()
}

// MigrateUp applies all pending migrations and returns how many ran
func (m *Migrator) MigrateUp() (int, error) {
	if err := m.Initialize(); err != nil {
		return 0, err
	}

	applied, err := m.GetAppliedMigrations()
	if err != nil {
		return 0, err
	}

	migrations, err := m.LoadMigrations()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}

		m.logger.Info("Applying migration %s: %s", migration.Version, migration.Description)
		if err := m.ApplyMigration(migration); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}
