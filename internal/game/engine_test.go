package game

import (
	"context"
	"errors"
	"testing"

	"github.com/robalobadob/lingoplay/internal/clock"
	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/i18n"
	"github.com/robalobadob/lingoplay/internal/shuffle"
)

const testHeader = `"title":{"en":"Title","ta":"தலைப்பு"},"instruction":{"en":"Do it"}`

type harness struct {
	t       *testing.T
	engine  Engine
	clock   *clock.Manual
	results []Result
}

func newHarness(t *testing.T, typ content.Type, body string) *harness {
	return newHarnessWith(t, typ, body, Options{})
}

func newHarnessWith(t *testing.T, typ content.Type, body string, opts Options) *harness {
	t.Helper()
	h := &harness{t: t, clock: clock.NewManual()}
	opts.Scheduler = h.clock
	if opts.Rand == nil {
		opts.Rand = shuffle.NewSeeded(7)
	}
	if opts.Lang == "" {
		opts.Lang = i18n.English
	}
	opts.OnComplete = func(r Result) { h.results = append(h.results, r) }
	e, err := Load(typ, []byte(`{`+testHeader+body+`}`), opts)
	if err != nil {
		t.Fatalf("Load(%s) error = %v", typ, err)
	}
	h.engine = e
	t.Cleanup(e.Close)
	return h
}

func (h *harness) apply(a Action) error {
	return h.engine.Apply(context.Background(), a)
}

func (h *harness) mustApply(a Action) {
	h.t.Helper()
	if err := h.apply(a); err != nil {
		h.t.Fatalf("Apply(%+v) error = %v", a, err)
	}
}

func (h *harness) wantErr(a Action, target error) {
	h.t.Helper()
	if err := h.apply(a); !errors.Is(err, target) {
		h.t.Fatalf("Apply(%+v) error = %v, want %v", a, err, target)
	}
}

func intp(i int) *int    { return &i }
func boolp(b bool) *bool { return &b }

func TestLoadCoversEveryType(t *testing.T) {
	for _, typ := range content.Types() {
		t.Run(typ.String(), func(t *testing.T) {
			e, err := Load(typ, []byte(`{`+testHeader+`}`), Options{Scheduler: clock.NewManual()})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			defer e.Close()
			if e.Type() != typ {
				t.Fatalf("Type() = %v, want %v", e.Type(), typ)
			}
			if e.Snapshot() == nil {
				t.Fatal("Snapshot() = nil")
			}
			if st := e.Status(); st.Completed || st.Score != 0 {
				t.Fatalf("fresh status = %+v", st)
			}
		})
	}
}

func TestLoadMalformedIsInert(t *testing.T) {
	e, err := Load(content.MemoryPair, []byte(`{"cards": 12`), Options{Scheduler: clock.NewManual()})
	if err == nil {
		t.Fatal("expected a decode error alongside the engine")
	}
	if e == nil {
		t.Fatal("expected an inert engine")
	}
	if v := e.Snapshot().(MemoryView); len(v.Cards) != 0 {
		t.Fatalf("cards = %d, want 0", len(v.Cards))
	}
	if err := e.Apply(context.Background(), Action{Kind: KindFlip, ID: "x"}); !errors.Is(err, ErrUnknownID) {
		t.Fatalf("flip on inert board = %v, want ErrUnknownID", err)
	}
}

func TestLoadUnknownType(t *testing.T) {
	if _, err := Load(content.Type(99), []byte(`{}`), Options{}); !errors.Is(err, content.ErrUnknownType) {
		t.Fatalf("Load(99) error = %v, want ErrUnknownType", err)
	}
}

func TestUnknownAction(t *testing.T) {
	h := newHarness(t, content.Flashcard, `,"word":{"en":"apple"}`)
	h.wantErr(Action{Kind: "dance"}, ErrUnknownAction)
}

func TestUnsupportedLanguage(t *testing.T) {
	h := newHarness(t, content.Flashcard, `,"word":{"en":"apple"}`)
	h.wantErr(Action{Kind: KindLang, Lang: "fr"}, ErrUnsupported)
	if h.engine.Status().Lang != i18n.English {
		t.Fatalf("language changed on a rejected switch")
	}
}

func TestCloseCancelsPendingTransitions(t *testing.T) {
	h := newHarness(t, content.MemoryPair, `,"cards":[{"id":"a","content":{"en":"x"}},{"id":"b","content":{"en":"x"}}],"answerPairs":[{"aId":"a","bId":"b"}]`)
	h.mustApply(Action{Kind: KindFlip, ID: "a"})
	h.mustApply(Action{Kind: KindFlip, ID: "b"})
	h.engine.Close()
	h.clock.Advance(MismatchDelay)
	if len(h.results) != 0 {
		t.Fatalf("completion fired after Close: %+v", h.results)
	}
	if h.clock.Pending() != 0 {
		t.Fatalf("pending timers after Close = %d", h.clock.Pending())
	}
	h.wantErr(Action{Kind: KindFlip, ID: "a"}, ErrClosed)
}

func TestFiredTransitionsAreReleased(t *testing.T) {
	h := newHarness(t, content.MemoryPair, memoryBody)
	e := h.engine.(*memoryEngine)
	for i := 0; i < 5; i++ {
		h.mustApply(Action{Kind: KindFlip, ID: "c1"})
		h.mustApply(Action{Kind: KindFlip, ID: "c3"})
		if len(e.timers) != 1 {
			t.Fatalf("round %d: timers while settling = %d, want 1", i, len(e.timers))
		}
		h.clock.Advance(MismatchDelay)
		if len(e.timers) != 0 {
			t.Fatalf("round %d: timers after firing = %d, want 0", i, len(e.timers))
		}
	}
}

func TestFlashcard(t *testing.T) {
	h := newHarness(t, content.Flashcard, `,"word":{"en":"apple"},"meaning":{"en":"a fruit"},"image":{"en":"/img/apple.png"}`)
	v := h.engine.Snapshot().(FlashcardView)
	if v.Word != "apple" || v.Meaning != "" || v.Flipped {
		t.Fatalf("front view = %+v", v)
	}
	h.mustApply(Action{Kind: KindFlip})
	v = h.engine.Snapshot().(FlashcardView)
	if v.Meaning != "a fruit" || !v.Flipped {
		t.Fatalf("back view = %+v", v)
	}
	h.mustApply(Action{Kind: KindFlip})
	h.mustApply(Action{Kind: KindFlip})
	if len(h.results) != 1 || h.results[0] != (Result{Type: content.Flashcard, Score: 1, Max: 1, Success: true}) {
		t.Fatalf("results = %+v, want one success", h.results)
	}
}
