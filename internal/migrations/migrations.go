// Package migrations embeds the schema and applies it with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/cacildafilmes/cacilda/internal/logging"
)

//go:embed sql/*.sql
var files embed.FS

// Status describes the schema version after a run.
type Status struct {
	Version uint
	Dirty   bool
	Changed bool
}

func newMigrate(databaseURL string) (*migrate.Migrate, func(), error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	src, err := iofs.New(files, "sql")
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, func() { _, _ = m.Close() }, nil
}

// Up applies every pending migration.
func Up(databaseURL string, logger *zap.Logger) (Status, error) {
	logger = logging.OrNop(logger)

	m, closeFn, err := newMigrate(databaseURL)
	if err != nil {
		return Status{}, err
	}
	defer closeFn()

	changed := true
	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return Status{}, fmt.Errorf("failed to apply migrations: %w", err)
		}
		changed = false
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		return Status{Version: version, Dirty: true}, fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	}

	status := Status{Version: version, Changed: changed}
	if changed {
		logger.Info("migrations applied", zap.Uint("version", version))
	} else {
		logger.Info("database schema is up to date", zap.Uint("version", version))
	}
	return status, nil
}

// Down rolls back the given number of migrations.
func Down(databaseURL string, steps int, logger *zap.Logger) (Status, error) {
	logger = logging.OrNop(logger)
	if steps <= 0 {
		return Status{}, fmt.Errorf("steps must be positive, got %d", steps)
	}

	m, closeFn, err := newMigrate(databaseURL)
	if err != nil {
		return Status{}, err
	}
	defer closeFn()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return Status{}, fmt.Errorf("failed to roll back migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, fmt.Errorf("failed to get migration version: %w", err)
	}
	logger.Info("migrations rolled back", zap.Int("steps", steps), zap.Uint("version", version))
	return Status{Version: version, Dirty: dirty, Changed: true}, nil
}

// Names lists the embedded migration files.
func Names() ([]string, error) {
	entries, err := files.ReadDir("sql")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
