package store

import (
	"context"
	"embed"
	"log/slog"

	"github.com/pkg/errors"
)

// The schema is applied wholesale on startup. Every statement in LATEST.sql
// is idempotent (IF NOT EXISTS), so re-running it on an existing database is
// a no-op; there is no incremental migration history yet.

//go:embed migration
var migrationFS embed.FS

const latestSchemaFileName = "migration/sqlite/LATEST.sql"

// Migrate initializes the database schema.
func (s *Store) Migrate(ctx context.Context) error {
	if s.profile.Driver != "sqlite" {
		return errors.Errorf("unsupported driver for migration: %s", s.profile.Driver)
	}

	buf, err := migrationFS.ReadFile(latestSchemaFileName)
	if err != nil {
		return errors.Wrap(err, "failed to read latest schema file")
	}

	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}

	slog.Debug("database schema ensured", slog.String("driver", s.profile.Driver))
	return nil
}
