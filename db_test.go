package main

import (
	"path/filepath"
	"testing"

	"github.com/robalobadob/lingoplay/internal/config"
	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/exercise"
)

func TestOpenDatabaseSeedsOnce(t *testing.T) {
	cfg := config.Config{DatabasePath: filepath.Join(t.TempDir(), "nested", "app.db"), SeedSamples: true}
	for i := 0; i < 2; i++ {
		db, err := openDatabase(t.Context(), cfg)
		if err != nil {
			t.Fatalf("open #%d: %v", i, err)
		}
		n, err := exercise.NewStore(db).Count(t.Context())
		db.Close()
		if err != nil {
			t.Fatal(err)
		}
		if want := len(content.Types()); n != want {
			t.Fatalf("open #%d: %d exercises, want %d", i, n, want)
		}
	}
}

func TestOpenDatabaseWithoutSamples(t *testing.T) {
	cfg := config.Config{DatabasePath: filepath.Join(t.TempDir(), "app.db")}
	db, err := openDatabase(t.Context(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	n, err := exercise.NewStore(db).Count(t.Context())
	if err != nil || n != 0 {
		t.Fatalf("count = %d, %v", n, err)
	}
}
