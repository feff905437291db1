// Package sqlitetest opens throwaway, fully migrated databases for tests.
package sqlitetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/robalobadob/lingoplay/assets"
	"github.com/robalobadob/lingoplay/internal/sqlite"
)

// Open returns a migrated database in t's temp dir, closed on cleanup.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.Migrate(context.Background(), db, assets.FS, assets.MigrationsDir); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
