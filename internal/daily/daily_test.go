package daily

import (
	"context"
	"testing"
	"time"

	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/exercise"
	"github.com/robalobadob/lingoplay/internal/sqlite/sqlitetest"
)

func TestExerciseIndexIsStablePerDay(t *testing.T) {
	morning := time.Date(2025, 3, 4, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 4, 23, 59, 0, 0, time.UTC)
	if a, b := ExerciseIndex(morning, "salt", 17), ExerciseIndex(evening, "salt", 17); a != b {
		t.Fatalf("same day: %d != %d", a, b)
	}

	seen := map[int]bool{}
	for d := 0; d < 60; d++ {
		i := ExerciseIndex(morning.AddDate(0, 0, d), "salt", 5)
		if i < 0 || i >= 5 {
			t.Fatalf("index %d out of range", i)
		}
		seen[i] = true
	}
	if len(seen) < 2 {
		t.Fatalf("60 days picked only %v", seen)
	}
	if ExerciseIndex(morning, "salt", 0) != 0 {
		t.Fatal("empty catalogue must yield 0")
	}
}

func TestPick(t *testing.T) {
	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	if got := Pick(day, "salt", nil); got != "" {
		t.Fatalf("Pick(nil) = %q", got)
	}
	ids := []string{"a", "b", "c"}
	if got := Pick(day, "salt", ids); got != ids[ExerciseIndex(day, "salt", 3)] {
		t.Fatalf("Pick() = %q", got)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	ctx := context.Background()
	db := sqlitetest.Open(t)
	ex, err := exercise.NewStore(db).Create(ctx, content.Video, []byte(`{}`), "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES ('u1','kavi','x','2025-01-01T00:00:00Z')`); err != nil {
		t.Fatal(err)
	}

	s := NewStore(db)
	results := []Result{
		{ExerciseID: ex.ID, AnonymousID: "anon-slow", Score: 3, Max: 3, Success: true, ElapsedMs: 9000},
		{ExerciseID: ex.ID, UserID: "u1", Score: 3, Max: 3, Success: true, ElapsedMs: 4000},
		{ExerciseID: ex.ID, AnonymousID: "anon-low", Score: 1, Max: 3, ElapsedMs: 1000},
	}
	for _, r := range results {
		if err := s.InsertResult(ctx, r); err != nil {
			t.Fatalf("InsertResult() error = %v", err)
		}
	}
	if err := s.InsertResult(ctx, Result{ExerciseID: ex.ID}); err == nil {
		t.Fatal("InsertResult() accepted a result with no owner")
	}

	rows, err := s.Leaderboard(ctx, ex.ID, 0)
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	want := []struct {
		user    string
		elapsed int64
	}{{"kavi", 4000}, {"", 9000}, {"", 1000}}
	if len(rows) != len(want) {
		t.Fatalf("rows = %+v", rows)
	}
	for i, w := range want {
		if rows[i].Username != w.user || rows[i].ElapsedMs != w.elapsed || rows[i].Rank != i+1 {
			t.Errorf("row %d = %+v, want %s/%d", i, rows[i], w.user, w.elapsed)
		}
	}
}

func TestClaimAnonymous(t *testing.T) {
	ctx := context.Background()
	db := sqlitetest.Open(t)
	ex, _ := exercise.NewStore(db).Create(ctx, content.Video, []byte(`{}`), "")
	_, _ = db.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES ('u1','kavi','x','2025-01-01T00:00:00Z')`)

	s := NewStore(db)
	_ = s.InsertResult(ctx, Result{ExerciseID: ex.ID, AnonymousID: "cookie", Score: 1, Max: 1, Success: true})

	if played, _ := s.Played(ctx, ex.ID, "u1", ""); played {
		t.Fatal("user has not played yet")
	}
	n, err := s.ClaimAnonymous(ctx, "cookie", "u1")
	if err != nil || n != 1 {
		t.Fatalf("ClaimAnonymous() = %d, %v", n, err)
	}
	if played, _ := s.Played(ctx, ex.ID, "u1", ""); !played {
		t.Fatal("claimed result not attributed to the user")
	}
	if played, _ := s.Played(ctx, ex.ID, "", "cookie"); played {
		t.Fatal("claimed result still attributed to the cookie")
	}
}
