package editor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/robalobadob/lingoplay/internal/content"
)

type fakeSaver struct {
	saved map[string]string
	err   error
}

func (f *fakeSaver) UpdateContent(_ context.Context, id string, raw []byte) error {
	if f.err != nil {
		return f.err
	}
	f.saved[id] = string(raw)
	return nil
}

const savedCard = `{"title":{"en":"Mother"},"instruction":{"en":"Flip"},"word":{"en":"mother"}}`

func openCard(t *testing.T) (*Editor, *fakeSaver) {
	t.Helper()
	s := &fakeSaver{saved: map[string]string{}}
	e := New(s)
	st := e.Open("ex1", content.Flashcard, []byte(savedCard))
	if !st.Valid || st.Dirty {
		t.Fatalf("Open() = %+v", st)
	}
	return e, s
}

func TestEditReportsErrors(t *testing.T) {
	testCases := []struct {
		name      string
		text      string
		wantField string
		wantMsg   string
	}{
		{"syntax", `{"title": {"en": "x"`, "", "invalid JSON"},
		{"not an object", `[1,2]`, "(root)", "JSON object"},
		{"empty", `   `, "", "empty"},
		{"missing word", `{"title":{"en":"x"},"instruction":{"en":"y"},"word":{}}`, "word", "at least one language"},
		{"missing title", `{"instruction":{"en":"y"},"word":{"en":"w"}}`, "title", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, _ := openCard(t)
			st, err := e.Edit("ex1", tc.text)
			if err != nil {
				t.Fatalf("Edit() error = %v", err)
			}
			if st.Valid || st.Error == nil || !st.Dirty {
				t.Fatalf("state = %+v", st)
			}
			if st.Error.Field != tc.wantField || !strings.Contains(st.Error.Message, tc.wantMsg) {
				t.Fatalf("error = %+v, want field %q containing %q", st.Error, tc.wantField, tc.wantMsg)
			}
		})
	}
}

func TestSaveBlockedUntilValid(t *testing.T) {
	e, s := openCard(t)
	ctx := context.Background()

	_, _ = e.Edit("ex1", `{"title":{"en":"Father"},"instruction":{"en":"Flip"},"word":{}}`)
	_, err := e.Save(ctx, "ex1")
	var verr *content.ValidationError
	if !errors.Is(err, ErrInvalid) || !errors.As(err, &verr) || verr.Field != "word" {
		t.Fatalf("Save() error = %v, want ErrInvalid on word", err)
	}
	if len(s.saved) != 0 {
		t.Fatal("invalid document reached the store")
	}

	if _, err := e.SetField("ex1", "word.en", []byte(`"father"`)); err != nil {
		t.Fatalf("SetField() error = %v", err)
	}
	st, err := e.Save(ctx, "ex1")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if st.Dirty || !strings.Contains(s.saved["ex1"], `"father"`) {
		t.Fatalf("state = %+v, saved = %q", st, s.saved["ex1"])
	}
}

func TestSaveFailureKeepsBufferDirty(t *testing.T) {
	e, s := openCard(t)
	s.err = errors.New("disk full")
	_, _ = e.SetField("ex1", "meaning.en", []byte(`"female parent"`))
	if _, err := e.Save(context.Background(), "ex1"); err == nil || errors.Is(err, ErrInvalid) {
		t.Fatalf("Save() error = %v, want store error", err)
	}
	if st, _ := e.Get("ex1"); !st.Dirty {
		t.Fatal("buffer marked clean after a failed save")
	}
}

func TestSetFieldRules(t *testing.T) {
	e, _ := openCard(t)
	testCases := []struct {
		name, path, value string
	}{
		{"empty path", " ", `"x"`},
		{"bad value", "word.ta", `"unterminated`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before, _ := e.Get("ex1")
			st, err := e.SetField("ex1", tc.path, []byte(tc.value))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("SetField() error = %v, want ErrInvalid", err)
			}
			if st.Text != before.Text {
				t.Fatal("rejected patch changed the buffer")
			}
		})
	}

	_, _ = e.Edit("ex1", `{"broken"`)
	if _, err := e.SetField("ex1", "word.en", []byte(`"x"`)); !errors.Is(err, ErrInvalid) {
		t.Fatalf("SetField() on broken JSON = %v, want ErrInvalid", err)
	}
}

func TestDiscardAndFormat(t *testing.T) {
	e, _ := openCard(t)
	_, _ = e.SetField("ex1", "word.ta", []byte(`"அம்மா"`))
	st, err := e.Format("ex1")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(st.Text, "\n  \"title\"") || !st.Valid {
		t.Fatalf("formatted = %q", st.Text)
	}

	st, _ = e.Discard("ex1")
	if st.Text != savedCard || st.Dirty {
		t.Fatalf("after discard = %+v", st)
	}

	_, _ = e.Edit("ex1", `nope`)
	if _, err := e.Format("ex1"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Format() on broken JSON = %v, want ErrInvalid", err)
	}
}

func TestOpenKeepsUnsavedEdits(t *testing.T) {
	e, _ := openCard(t)
	_, _ = e.Edit("ex1", `{}`)
	if st := e.Open("ex1", content.Flashcard, []byte(savedCard)); st.Text != `{}` {
		t.Fatalf("Open() reset the buffer: %q", st.Text)
	}
	e.Close("ex1")
	if _, err := e.Get("ex1"); !errors.Is(err, ErrNoBuffer) {
		t.Fatalf("Get() after Close = %v", err)
	}
	if _, err := e.Edit("ex1", `{}`); !errors.Is(err, ErrNoBuffer) {
		t.Fatalf("Edit() after Close = %v", err)
	}
}
