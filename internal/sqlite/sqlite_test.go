package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "app.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"m/001_a.sql":  {Data: []byte(`CREATE TABLE a (id INTEGER PRIMARY KEY);`)},
		"m/002_b.sql":  {Data: []byte(`INSERT INTO a (id) VALUES (1);`)},
		"m/notes.txt":  {Data: []byte(`ignored`)},
		"m/003_fk.sql": {Data: []byte("PRAGMA foreign_keys = OFF;\nCREATE TABLE c (id INTEGER);\nPRAGMA foreign_keys = ON;")},
	}
	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, db, fsys, "m"); err != nil {
			t.Fatalf("Migrate() run %d error = %v", i+1, err)
		}
	}

	var rows, applied int
	if err := db.QueryRow(`SELECT COUNT(1) FROM a`).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if err := db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&applied); err != nil {
		t.Fatal(err)
	}
	if rows != 1 || applied != 3 {
		t.Fatalf("rows = %d, applied = %d, want 1 and 3", rows, applied)
	}
}

func TestMigrateRollsBackFailedScript(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"m/001_bad.sql": {Data: []byte(`CREATE TABLE ok (id INTEGER); INSERT INTO missing VALUES (1);`)},
	}
	if err := Migrate(ctx, db, fsys, "m"); err == nil {
		t.Fatal("Migrate() succeeded on a broken script")
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(1) FROM sqlite_master WHERE name='ok'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatal("partial migration was committed")
	}
}
