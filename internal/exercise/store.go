// internal/exercise/store.go
//
// SQLite-backed catalogue of activity documents.
// Responsibilities:
//   - CRUD over the exercises table (id, type, title, raw JSON content).
//   - Keeping the listing title in sync with the document's "title" field.
//   - Stable ordering (created_at, id) used by listings and the daily pick.
//
// The store does not validate documents; callers run content.Validate
// (authoring) or accept lenient decoding (playback).

package exercise

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/i18n"
)

// ErrNotFound is returned when no exercise has the requested id.
var ErrNotFound = errors.New("exercise not found")

// Exercise is one stored activity document.
type Exercise struct {
	ID        string          `json:"id"`
	Type      content.Type    `json:"type"`
	TypeName  string          `json:"typeName"`
	Title     i18n.Text       `json:"title"`
	Content   json.RawMessage `json:"content,omitempty"`
	AuthorID  string          `json:"authorId,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store persists exercises in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore wraps an open database that carries the exercises table.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts a new exercise and returns it with its generated id.
func (s *Store) Create(ctx context.Context, t content.Type, raw []byte, authorID string) (Exercise, error) {
	if !t.Valid() {
		return Exercise{}, fmt.Errorf("%w: %d", content.ErrUnknownType, int(t))
	}
	now := s.now()
	ex := Exercise{
		ID:        uuid.NewString(),
		Type:      t,
		TypeName:  t.String(),
		Title:     titleOf(raw),
		Content:   json.RawMessage(raw),
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exercises (id, type, title, content, author_id, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?)`,
		ex.ID, int(t), encodeTitle(ex.Title), string(raw), nullable(authorID),
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return Exercise{}, fmt.Errorf("insert exercise: %w", err)
	}
	return ex, nil
}

// Get loads one exercise including its content.
func (s *Store) Get(ctx context.Context, id string) (Exercise, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type, title, content, COALESCE(author_id,''), created_at, updated_at
		 FROM exercises WHERE id=?`, id)
	ex, err := scan(row.Scan, true)
	if errors.Is(err, sql.ErrNoRows) {
		return Exercise{}, ErrNotFound
	}
	return ex, err
}

// List returns exercise summaries (no content) in creation order.
// A zero t lists every type.
func (s *Store) List(ctx context.Context, t content.Type) ([]Exercise, error) {
	q := `SELECT id, type, title, '', COALESCE(author_id,''), created_at, updated_at FROM exercises`
	var args []any
	if t != 0 {
		q += ` WHERE type=?`
		args = append(args, int(t))
	}
	q += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	out := []Exercise{}
	for rows.Next() {
		ex, err := scan(rows.Scan, false)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

// IDs returns every exercise id in creation order.
func (s *Store) IDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM exercises ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list exercise ids: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Count reports how many exercises are stored.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM exercises`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count exercises: %w", err)
	}
	return n, nil
}

// UpdateContent replaces the document of an existing exercise.
func (s *Store) UpdateContent(ctx context.Context, id string, raw []byte) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE exercises SET content=?, title=?, updated_at=? WHERE id=?`,
		string(raw), encodeTitle(titleOf(raw)), formatTime(s.now()), id)
	if err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	return affected(res)
}

// Delete removes an exercise; its results go with it.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM exercises WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	return affected(res)
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scan(scanFn func(...any) error, withContent bool) (Exercise, error) {
	var (
		ex               Exercise
		typ              int
		title, body      string
		created, updated string
	)
	if err := scanFn(&ex.ID, &typ, &title, &body, &ex.AuthorID, &created, &updated); err != nil {
		return Exercise{}, err
	}
	ex.Type = content.Type(typ)
	ex.TypeName = ex.Type.String()
	ex.Title = decodeTitle(title)
	if withContent {
		ex.Content = json.RawMessage(body)
	}
	ex.CreatedAt = parseTime(created)
	ex.UpdatedAt = parseTime(updated)
	return ex, nil
}

// titleOf reads the multilingual "title" object out of a raw document.
// Anything that is not an object of strings yields an empty title.
func titleOf(raw []byte) i18n.Text {
	title := i18n.Text{}
	res := gjson.GetBytes(raw, "title")
	if !res.IsObject() {
		return title
	}
	res.ForEach(func(k, v gjson.Result) bool {
		if v.Type == gjson.String && v.Str != "" {
			title[i18n.Lang(k.String())] = v.Str
		}
		return true
	})
	return title
}

func encodeTitle(t i18n.Text) string {
	b, err := json.Marshal(t)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func decodeTitle(s string) i18n.Text {
	t := i18n.Text{}
	_ = json.Unmarshal([]byte(s), &t)
	return t
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
