package eventlog

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// MigrateUp applies all pending migrations from migrationsFS.
func (el *EventLog) MigrateUp(migrationsFS fs.FS) error {
	m, err := el.newMigrate(migrationsFS)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("eventlog: migration up failed: %w", err)
	}
	return nil
}

// MigrateVersion returns the current schema version and dirty state.
func (el *EventLog) MigrateVersion(migrationsFS fs.FS) (version uint, dirty bool, err error) {
	m, err := el.newMigrate(migrationsFS)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err = m.Version()
	if err != nil && errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// newMigrate builds a migrate.Migrate bound to this database and the iofs
// source driver over migrationsFS. The returned instance must not be
// Close()'d: the sqlite driver's Close() would close the shared *sql.DB.
func (el *EventLog) newMigrate(migrationsFS fs.FS) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("eventlog: failed to create iofs source driver: %w", err)
	}
	driver, err := sqlite.WithInstance(el.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("eventlog: failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("eventlog: failed to create migrate instance: %w", err)
	}
	m.Log = migrateLogger{}
	return m, nil
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) { log.Printf("[eventlog migrate] "+format, v...) }
func (migrateLogger) Verbose() bool                          { return false }
