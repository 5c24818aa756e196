package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Runner drives schema migrations from a directory of versioned SQL files.
// It owns the database handle it opens and releases it on Close.
type Runner struct {
	db  *sql.DB
	m   *migrate.Migrate
	log *zap.Logger
}

// Open connects to the database at dsn and prepares a Runner over the
// migration files in dir.
func Open(dsn, dir string, log *zap.Logger) (*Runner, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	drv, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", drv)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("read migration source %s: %w", dir, err)
	}
	return &Runner{db: db, m: m, log: log}, nil
}

// Apply brings the schema up to the latest version.
func (r *Runner) Apply() error {
	switch err := r.m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		r.log.Info("schema already up to date")
		return nil
	case err != nil:
		return fmt.Errorf("apply migrations: %w", err)
	}
	v, dirty, err := r.m.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	r.log.Info("schema migrated", zap.Uint("version", v), zap.Bool("dirty", dirty))
	return nil
}

// Rollback reverts every applied migration.
func (r *Runner) Rollback() error {
	switch err := r.m.Down(); {
	case errors.Is(err, migrate.ErrNoChange):
		r.log.Info("nothing to roll back")
		return nil
	case err != nil:
		return fmt.Errorf("roll back migrations: %w", err)
	}
	r.log.Info("schema rolled back to empty")
	return nil
}

// Shift moves n versions forward (n > 0) or backward (n < 0).
func (r *Runner) Shift(n int) error {
	err := r.m.Steps(n)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("shift %d migrations: %w", n, err)
	}
	return nil
}

// State reports the current schema version and whether it is dirty.
// A fresh database reports version 0.
func (r *Runner) State() (uint, bool, error) {
	v, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return v, dirty, nil
}

// Pin records version v without running any SQL. Only useful for
// recovering a dirty schema after a failed migration.
func (r *Runner) Pin(v int) error {
	r.log.Warn("pinning schema version", zap.Int("version", v))
	if err := r.m.Force(v); err != nil {
		return fmt.Errorf("pin version %d: %w", v, err)
	}
	return nil
}

func (r *Runner) Close() {
	srcErr, dbErr := r.m.Close()
	if srcErr != nil {
		r.log.Warn("closing migration source", zap.Error(srcErr))
	}
	if dbErr != nil {
		r.log.Warn("closing migration database", zap.Error(dbErr))
	}
	r.db.Close()
}
