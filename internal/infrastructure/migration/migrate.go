// Package migration applies the SQL files under migrations/ with golang-migrate
// and scaffolds new ones.
package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// schemaTable records applied versions, shared by the CLI and server start-up
const schemaTable = "schema_migrations"

// Migrator applies migrations from one directory to one PostgreSQL database
type Migrator struct {
	migrate *migrate.Migrate
	dir     string
	logger  *zap.Logger
}

// Status is the database's position relative to the migration files
type Status struct {
	Version uint
	Dirty   bool
	Pending []File
}

// New creates a Migrator on an open database. Closing the Migrator releases its
// dedicated connection; db itself stays open.
func New(db *sql.DB, dir string, logger *zap.Logger) (*Migrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: schemaTable})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("open migrations in %s: %w", dir, err)
	}
	return &Migrator{migrate: m, dir: dir, logger: logger}, nil
}

// apply runs step and logs the resulting version. Nothing to do is not an error.
func (m *Migrator) apply(what string, step func() error) error {
	err := step()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("Schema already up to date", zap.String("command", what))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", what, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("Schema migrated",
		zap.String("command", what),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	return m.apply("up", m.migrate.Up)
}

// Down rolls every migration back
func (m *Migrator) Down() error {
	return m.apply("down", m.migrate.Down)
}

// Steps applies n migrations; a negative n rolls back
func (m *Migrator) Steps(n int) error {
	return m.apply(fmt.Sprintf("step %d", n), func() error { return m.migrate.Steps(n) })
}

// GoTo migrates up or down to version
func (m *Migrator) GoTo(version uint) error {
	return m.apply(fmt.Sprintf("goto %d", version), func() error { return m.migrate.Migrate(version) })
}

// Version returns the applied version, 0 on a fresh database
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Status reports the applied version and the files not yet applied
func (m *Migrator) Status() (*Status, error) {
	version, dirty, err := m.Version()
	if err != nil {
		return nil, err
	}
	files, err := List(m.dir)
	if err != nil {
		return nil, err
	}
	return &Status{Version: version, Dirty: dirty, Pending: Pending(files, version)}, nil
}

// Force records version without running anything, to recover from a dirty state
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing schema version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every table, including the version table
func (m *Migrator) Drop() error {
	m.logger.Warn("Dropping every table")
	if err := m.migrate.Drop(); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return nil
}

// Close releases the source and the migration connection
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	return errors.Join(sourceErr, dbErr)
}

// UpOnStart applies pending migrations before the server starts serving. A
// dirty schema is refused: it needs `migrate force` by an operator.
func UpOnStart(db *sql.DB, dir string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	m, err := New(db, dir, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	st, err := m.Status()
	if err != nil {
		return err
	}
	if st.Dirty {
		return fmt.Errorf("schema version %d is dirty; fix it and run migrate force", st.Version)
	}
	if len(st.Pending) == 0 {
		return nil
	}
	logger.Info("Applying migrations on start",
		zap.Uint("from_version", st.Version),
		zap.Int("pending", len(st.Pending)))
	return m.Up()
}
