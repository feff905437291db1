package game

import (
	"testing"

	"github.com/robalobadob/lingoplay/internal/content"
)

// Tiles t1..t3 form group g1, t4..t6 form g2. t7..t9 have no group but
// identical text, so they clear through the content fallback.
const tripleBody = `,"tiles":[` +
	`{"id":"t1","content":{"en":"apple"}},{"id":"t2","content":{"ta":"ஆப்பிள்"}},{"id":"t3","content":{"en":"🍎"}},` +
	`{"id":"t4","content":{"en":"cat"}},{"id":"t5","content":{"ta":"பூனை"}},{"id":"t6","content":{"en":"🐈"}},` +
	`{"id":"t7","content":{"en":"go"}},{"id":"t8","content":{"en":"go"}},{"id":"t9","content":{"en":"go"}}],` +
	`"groups":[{"groupId":"g1","tileIds":["t1","t2","t3"]},{"groupId":"g2","tileIds":["t4","t5","t6"]}]`

func tileStatuses(e Engine) map[string]CardStatus {
	out := map[string]CardStatus{}
	for _, tl := range e.Snapshot().(TripleView).Tiles {
		out[tl.ID] = tl.Status
	}
	return out
}

func TestTripleDeclaredGroup(t *testing.T) {
	h := newHarness(t, content.TripleBlast, tripleBody)
	for _, id := range []string{"t3", "t1", "t2"} {
		h.mustApply(Action{Kind: KindSelect, ID: id})
	}
	if got := tileStatuses(h.engine)["t1"]; got != StatusMatchTemp {
		t.Fatalf("status = %q, want matched_temp", got)
	}
	h.wantErr(Action{Kind: KindSelect, ID: "t4"}, ErrLocked)
	h.clock.Advance(SettleDelay)
	st := tileStatuses(h.engine)
	for _, id := range []string{"t1", "t2", "t3"} {
		if st[id] != StatusHidden {
			t.Fatalf("%s = %q, want hidden", id, st[id])
		}
	}
	if h.engine.Status().Score != 3 {
		t.Fatalf("score = %d, want 3", h.engine.Status().Score)
	}
	h.wantErr(Action{Kind: KindSelect, ID: "t1"}, ErrInvalidMove)
}

func TestTripleWrongSelection(t *testing.T) {
	h := newHarness(t, content.TripleBlast, tripleBody)
	for _, id := range []string{"t1", "t2", "t4"} {
		h.mustApply(Action{Kind: KindSelect, ID: id})
	}
	if got := tileStatuses(h.engine)["t4"]; got != StatusWrongTemp {
		t.Fatalf("status = %q, want incorrect_temp", got)
	}
	h.clock.Advance(ShakeDelay)
	st := tileStatuses(h.engine)
	for _, id := range []string{"t1", "t2", "t4"} {
		if st[id] != StatusDefault {
			t.Fatalf("%s = %q, want default", id, st[id])
		}
	}
	if v := h.engine.Snapshot().(TripleView); len(v.Selected) != 0 {
		t.Fatalf("selection not cleared: %v", v.Selected)
	}
}

func TestTripleDeselect(t *testing.T) {
	h := newHarness(t, content.TripleBlast, tripleBody)
	h.mustApply(Action{Kind: KindSelect, ID: "t1"})
	h.mustApply(Action{Kind: KindSelect, ID: "t1"})
	if got := tileStatuses(h.engine)["t1"]; got != StatusDefault {
		t.Fatalf("status = %q, want default", got)
	}
}

func TestTripleContentFallbackAndWin(t *testing.T) {
	h := newHarness(t, content.TripleBlast, tripleBody)
	for _, group := range [][]string{{"t7", "t8", "t9"}, {"t1", "t2", "t3"}, {"t4", "t5", "t6"}} {
		for _, id := range group {
			h.mustApply(Action{Kind: KindSelect, ID: id})
		}
		h.clock.Advance(SettleDelay)
	}
	st := h.engine.Status()
	if !st.Completed || !st.Success || st.Score != 9 {
		t.Fatalf("status = %+v", st)
	}
	if len(h.results) != 1 {
		t.Fatalf("results = %+v, want exactly one", h.results)
	}
}
