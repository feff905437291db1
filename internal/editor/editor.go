// internal/editor/editor.go
//
// Authoring-side JSON editor for exercise documents.
// Responsibilities:
//   - One edit buffer per exercise, kept apart from the last-saved document
//     so previews and edits never touch stored content before Save.
//   - Re-checking the buffer on every edit: JSON syntax first, then the
//     structural rules of the exercise's activity type (content.Validate).
//   - Field-level patches (sjson) and pretty-printing (gjson @pretty).
//   - Save only when both checks pass; Discard reverts to the saved text.

package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/robalobadob/lingoplay/internal/content"
)

var (
	// ErrNoBuffer is returned for exercises that have not been opened.
	ErrNoBuffer = errors.New("no edit buffer")
	// ErrInvalid wraps the *content.ValidationError that blocked an operation.
	ErrInvalid = errors.New("document invalid")
)

// Saver persists a validated document.
type Saver interface {
	UpdateContent(ctx context.Context, id string, raw []byte) error
}

// State is the client-facing view of one buffer.
type State struct {
	ExerciseID string                   `json:"exerciseId"`
	Type       content.Type             `json:"type"`
	Text       string                   `json:"text"`
	Dirty      bool                     `json:"dirty"`
	Valid      bool                     `json:"valid"`
	Error      *content.ValidationError `json:"error,omitempty"`
}

type buffer struct {
	typ   content.Type
	text  string
	saved string
	err   *content.ValidationError
}

// Editor holds the open buffers.
type Editor struct {
	mu      sync.Mutex
	buffers map[string]*buffer
	saver   Saver
}

func New(saver Saver) *Editor {
	return &Editor{buffers: make(map[string]*buffer), saver: saver}
}

// Open returns the buffer for id, creating it from the saved document when
// none exists. An existing buffer keeps its unsaved edits.
func (e *Editor) Open(id string, t content.Type, saved []byte) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.buffers[id]
	if !ok {
		b = &buffer{typ: t, text: string(saved), saved: string(saved)}
		b.err = check(t, b.text)
		e.buffers[id] = b
	}
	return b.state(id)
}

// Get returns the current state of an open buffer.
func (e *Editor) Get(id string) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.buffers[id]
	if !ok {
		return State{}, ErrNoBuffer
	}
	return b.state(id), nil
}

// Edit replaces the buffer text. Invalid text is accepted and reported.
func (e *Editor) Edit(id, text string) (State, error) {
	return e.update(id, func(b *buffer) error {
		b.text = text
		return nil
	})
}

// SetField writes a raw JSON value at a gjson/sjson path such as
// "title.ta" or "questions.0.options.1.isCorrect". The buffer must already
// be syntactically valid JSON.
func (e *Editor) SetField(id, path string, value []byte) (State, error) {
	return e.update(id, func(b *buffer) error {
		path = strings.TrimSpace(path)
		if path == "" {
			return invalid("path", "is required")
		}
		if !gjson.ValidBytes(value) {
			return invalid(path, "value is not valid JSON")
		}
		if !gjson.Valid(b.text) {
			return syntaxError(b.typ, b.text)
		}
		out, err := sjson.SetRaw(b.text, path, string(value))
		if err != nil {
			return invalid(path, "%v", err)
		}
		b.text = out
		return nil
	})
}

// Format pretty-prints the buffer.
func (e *Editor) Format(id string) (State, error) {
	return e.update(id, func(b *buffer) error {
		if !gjson.Valid(b.text) {
			return syntaxError(b.typ, b.text)
		}
		b.text = gjson.Get(b.text, "@pretty").Raw
		return nil
	})
}

// Discard reverts the buffer to the last saved document.
func (e *Editor) Discard(id string) (State, error) {
	return e.update(id, func(b *buffer) error {
		b.text = b.saved
		return nil
	})
}

// Save persists the buffer when it passes every check. On a validation
// failure the returned error wraps ErrInvalid and the *content.ValidationError.
func (e *Editor) Save(ctx context.Context, id string) (State, error) {
	e.mu.Lock()
	b, ok := e.buffers[id]
	if !ok {
		e.mu.Unlock()
		return State{}, ErrNoBuffer
	}
	text, verr := b.text, b.err
	st := b.state(id)
	e.mu.Unlock()

	if verr != nil {
		return st, fmt.Errorf("%w: %w", ErrInvalid, verr)
	}
	if err := e.saver.UpdateContent(ctx, id, []byte(text)); err != nil {
		return st, fmt.Errorf("save %s: %w", id, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if cur, ok := e.buffers[id]; ok {
		cur.saved = text
		return cur.state(id), nil
	}
	return st, nil
}

// Close drops the buffer without saving.
func (e *Editor) Close(id string) {
	e.mu.Lock()
	delete(e.buffers, id)
	e.mu.Unlock()
}

// update applies fn to the buffer and re-checks it. An error from fn leaves
// the text untouched.
func (e *Editor) update(id string, fn func(*buffer) error) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.buffers[id]
	if !ok {
		return State{}, ErrNoBuffer
	}
	if err := fn(b); err != nil {
		var verr *content.ValidationError
		if errors.As(err, &verr) {
			return b.state(id), fmt.Errorf("%w: %w", ErrInvalid, verr)
		}
		return b.state(id), err
	}
	b.err = check(b.typ, b.text)
	return b.state(id), nil
}

func (b *buffer) state(id string) State {
	return State{
		ExerciseID: id,
		Type:       b.typ,
		Text:       b.text,
		Dirty:      b.text != b.saved,
		Valid:      b.err == nil,
		Error:      b.err,
	}
}

// check runs the syntax and structural checks; nil means savable.
func check(t content.Type, text string) *content.ValidationError {
	if strings.TrimSpace(text) == "" {
		return &content.ValidationError{Message: "document is empty"}
	}
	if !gjson.Valid(text) {
		return syntaxError(t, text)
	}
	if !gjson.Parse(text).IsObject() {
		return &content.ValidationError{Field: "(root)", Message: "document must be a JSON object"}
	}
	err := content.Validate(t, []byte(text))
	if err == nil {
		return nil
	}
	var verr *content.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return &content.ValidationError{Message: err.Error()}
}

// syntaxError reports where the JSON parser gave up.
func syntaxError(t content.Type, text string) *content.ValidationError {
	var verr *content.ValidationError
	if err := content.Validate(t, []byte(text)); errors.As(err, &verr) {
		return verr
	}
	return &content.ValidationError{Message: "invalid JSON"}
}

func invalid(field, format string, args ...any) *content.ValidationError {
	return &content.ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
