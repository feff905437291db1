package game

import (
	"strings"
	"testing"

	"github.com/robalobadob/lingoplay/internal/content"
)

// "I eat ___ and drink ___." with two identical "rice" options.
const blanksBody = `,"segments":[` +
	`{"id":"s0","type":"TEXT","content":{"en":"I eat"}},{"id":"b1","type":"BLANK","content":{"en":"rice"}},` +
	`{"id":"s2","type":"TEXT","content":{"en":"and drink"}},{"id":"b2","type":"BLANK","content":{"en":"tea"}}],` +
	`"options":[{"id":"o1","content":{"en":"rice"}},{"id":"o2","content":{"en":"tea"}},{"id":"o3","content":{"en":"rice"}}]`

func blankOptions(e Engine) map[string]bool {
	out := map[string]bool{}
	for _, o := range e.Snapshot().(BlanksView).Options {
		out[o.ID] = o.Available
	}
	return out
}

func blankSegment(t *testing.T, e Engine, id string) SegmentView {
	t.Helper()
	for _, s := range e.Snapshot().(BlanksView).Segments {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("segment %q missing", id)
	return SegmentView{}
}

func TestBlanksPlaceNeedsActiveBlank(t *testing.T) {
	h := newHarness(t, content.FillBlanks, blanksBody)
	h.wantErr(Action{Kind: KindPlace, ID: "o1"}, ErrInvalidMove)
	h.wantErr(Action{Kind: KindActivate, ID: "s0"}, ErrUnknownID)
}

func TestBlanksRemoveFreesByText(t *testing.T) {
	h := newHarness(t, content.FillBlanks, blanksBody)
	h.mustApply(Action{Kind: KindActivate, ID: "b1"})
	h.mustApply(Action{Kind: KindPlace, ID: "o3"})
	if got := blankSegment(t, h.engine, "b1").Answer; got != "rice" {
		t.Fatalf("answer = %q, want rice", got)
	}
	if blankOptions(h.engine)["o3"] {
		t.Fatal("placed option still available")
	}
	h.wantErr(Action{Kind: KindPlace, ID: "o2"}, ErrInvalidMove)

	h.mustApply(Action{Kind: KindRemove, ID: "b1"})
	opts := blankOptions(h.engine)
	if !opts["o1"] || !opts["o3"] {
		t.Fatalf("after remove options = %+v, want all rice options free", opts)
	}
	h.wantErr(Action{Kind: KindRemove, ID: "b1"}, ErrInvalidMove)
}

func TestBlanksCheck(t *testing.T) {
	h := newHarness(t, content.FillBlanks, blanksBody)
	h.mustApply(Action{Kind: KindActivate, ID: "b1"})
	h.mustApply(Action{Kind: KindPlace, ID: "o2"})
	h.wantErr(Action{Kind: KindCheck}, ErrIncomplete)

	h.mustApply(Action{Kind: KindActivate, ID: "b2"})
	h.mustApply(Action{Kind: KindPlace, ID: "o1"})
	h.mustApply(Action{Kind: KindCheck})
	if got := blankSegment(t, h.engine, "b1").Status; got != StatusIncorrect {
		t.Fatalf("b1 = %q, want incorrect", got)
	}
	if h.engine.Status().Completed {
		t.Fatal("completed with wrong answers")
	}

	// Replacing an answer frees the previous option.
	h.mustApply(Action{Kind: KindActivate, ID: "b1"})
	h.mustApply(Action{Kind: KindPlace, ID: "o3"})
	if got := blankSegment(t, h.engine, "b1").Status; got != "" {
		t.Fatalf("feedback not cleared by an edit: %q", got)
	}
	h.mustApply(Action{Kind: KindRemove, ID: "b2"})
	h.mustApply(Action{Kind: KindActivate, ID: "b2"})
	h.mustApply(Action{Kind: KindPlace, ID: "o2"})
	h.mustApply(Action{Kind: KindCheck})

	st := h.engine.Status()
	if !st.Completed || !st.Success || st.Score != 2 {
		t.Fatalf("status = %+v", st)
	}
	h.wantErr(Action{Kind: KindCheck}, ErrFinished)
}

func TestBlanksRejectsEmptyOption(t *testing.T) {
	body := strings.Replace(blanksBody, `{"id":"o3","content":{"en":"rice"}}`, `{"id":"o3","content":{}}`, 1)
	h := newHarness(t, content.FillBlanks, body)
	h.mustApply(Action{Kind: KindActivate, ID: "b1"})
	h.wantErr(Action{Kind: KindPlace, ID: "o3"}, ErrInvalidMove)
	if got := blankSegment(t, h.engine, "b1").Answer; got != "" {
		t.Fatalf("answer = %q, want empty", got)
	}
	if !blankOptions(h.engine)["o3"] {
		t.Fatal("rejected option left the pool")
	}
	// The blank stays active for a real option.
	h.mustApply(Action{Kind: KindPlace, ID: "o1"})
}
