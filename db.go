// db.go
//
// Database bootstrap for the lingoplay server.
// Responsibilities:
//   - Opening the SQLite file and applying the embedded migrations.
//   - Seeding one sample exercise per activity type into an empty catalogue.

package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lingoplay/assets"
	"github.com/robalobadob/lingoplay/internal/config"
	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/exercise"
	"github.com/robalobadob/lingoplay/internal/sqlite"
)

// openDatabase opens cfg.DatabasePath, migrates it and seeds samples when
// enabled.
func openDatabase(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(ctx, db, assets.FS, assets.MigrationsDir); err != nil {
		db.Close()
		return nil, err
	}
	if cfg.SeedSamples {
		n, err := seedSamples(ctx, exercise.NewStore(db))
		if err != nil {
			db.Close()
			return nil, err
		}
		if n > 0 {
			log.Info().Int("count", n).Msg("seeded sample exercises")
		}
	}
	return db, nil
}

// seedSamples inserts the embedded samples, but only into an empty catalogue
// so authored content is never duplicated on restart.
func seedSamples(ctx context.Context, exercises *exercise.Store) (int, error) {
	n, err := exercises.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	samples, err := assets.Samples()
	if err != nil {
		return 0, err
	}
	for _, s := range samples {
		t, ok := content.ParseType(s.Name)
		if !ok {
			return n, fmt.Errorf("sample %s: %w", s.Name, content.ErrUnknownType)
		}
		if _, err := exercises.Create(ctx, t, s.Body, ""); err != nil {
			return n, fmt.Errorf("sample %s: %w", s.Name, err)
		}
		n++
	}
	return n, nil
}
