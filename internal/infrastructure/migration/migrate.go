// Package migration applies the PostgreSQL schema with golang-migrate.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Migrator moves one postgres database between schema versions
type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// NewFromFS reads migrations from dir inside source, usually the embedded
// set. The database handle stays owned by the caller until Close.
func NewFromFS(db *sql.DB, source fs.FS, dir string, log *zap.Logger) (*Migrator, error) {
	src, err := iofs.New(source, dir)
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}
	target, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("open migration target: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", target)
	if err != nil {
		return nil, fmt.Errorf("init migrator: %w", err)
	}
	return &Migrator{m: m, log: log}, nil
}

// Up applies every pending migration
func (mg *Migrator) Up() error { return mg.apply("up", mg.m.Up) }

// Down rolls every migration back
func (mg *Migrator) Down() error { return mg.apply("down", mg.m.Down) }

// Steps moves n versions, backwards when n is negative
func (mg *Migrator) Steps(n int) error {
	return mg.apply(fmt.Sprintf("step %d", n), func() error { return mg.m.Steps(n) })
}

// GoTo moves up or down to version
func (mg *Migrator) GoTo(version uint) error {
	return mg.apply(fmt.Sprintf("goto %d", version), func() error { return mg.m.Migrate(version) })
}

// Force records version as applied without running it, to clear a dirty state
func (mg *Migrator) Force(version int) error {
	mg.log.Warn("Forcing migration version", zap.Int("version", version))
	return mg.apply(fmt.Sprintf("force %d", version), func() error { return mg.m.Force(version) })
}

// Version is the applied version; 0 on an empty database
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return v, dirty, nil
}

// Close also closes the database handle
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// apply runs op and logs the resulting version. ErrNoChange is success.
func (mg *Migrator) apply(name string, op func() error) error {
	err := op()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.log.Info("Schema unchanged", zap.String("op", name))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", name, err)
	}
	v, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	mg.log.Info("Schema migrated", zap.String("op", name), zap.Uint("version", v), zap.Bool("dirty", dirty))
	return nil
}
