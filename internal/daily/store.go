// internal/daily/store.go
//
// Completion results and per-exercise leaderboards.
// Every finished play-through is recorded against either a signed-in user
// or an anonymous cookie id; anonymous rows can be claimed after sign-in.

package daily

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Result is one finished play-through.
type Result struct {
	ExerciseID  string `json:"exerciseId"`
	UserID      string `json:"userId,omitempty"`
	AnonymousID string `json:"-"`
	Score       int    `json:"score"`
	Max         int    `json:"max"`
	Success     bool   `json:"success"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// LBRow is one leaderboard entry. Anonymous players have no username.
type LBRow struct {
	Rank      int    `json:"rank"`
	Username  string `json:"username,omitempty"`
	Score     int    `json:"score"`
	Max       int    `json:"max"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Store records results in SQLite.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// InsertResult stores one completion.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	if r.UserID == "" && r.AnonymousID == "" {
		return errors.New("result has no owner")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (exercise_id, user_id, anonymous_id, score, max_score, success, elapsed_ms, created_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		r.ExerciseID, nullable(r.UserID), nullable(r.AnonymousID), r.Score, r.Max, r.Success, r.ElapsedMs,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// Leaderboard returns the best results for an exercise:
// score DESC, then elapsed time ASC, then earliest first.
func (s *Store) Leaderboard(ctx context.Context, exerciseID string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(u.username,''), r.score, r.max_score, r.elapsed_ms
		 FROM results r LEFT JOIN users u ON u.id = r.user_id
		 WHERE r.exercise_id=?
		 ORDER BY r.score DESC, r.elapsed_ms ASC, r.id ASC
		 LIMIT ?`, exerciseID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		r := LBRow{Rank: len(out) + 1}
		if err := rows.Scan(&r.Username, &r.Score, &r.Max, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Played reports whether the owner already completed the exercise.
func (s *Store) Played(ctx context.Context, exerciseID, userID, anonID string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM results
		 WHERE exercise_id=? AND ((user_id IS NOT NULL AND user_id=?) OR (anonymous_id IS NOT NULL AND anonymous_id=?))`,
		exerciseID, userID, anonID,
	).Scan(&cnt)
	return cnt > 0, err
}

// ClaimAnonymous moves anonymous results to a user account.
func (s *Store) ClaimAnonymous(ctx context.Context, anonID, userID string) (int64, error) {
	if anonID == "" || userID == "" {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE results SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	if err != nil {
		return 0, fmt.Errorf("claim results: %w", err)
	}
	return res.RowsAffected()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
