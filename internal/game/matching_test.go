package game

import (
	"testing"

	"github.com/robalobadob/lingoplay/internal/content"
)

const matchingBody = `,"pairs":[` +
	`{"id":"p1","left":{"en":"cat"},"right":{"ta":"பூனை"}},` +
	`{"id":"p2","left":{"en":"dog"},"right":{"ta":"நாய்"}}]`

func matchingStatus(t *testing.T, e Engine, id string) CardStatus {
	t.Helper()
	for _, c := range e.Snapshot().(MatchingView).Cards {
		if c.ID == id {
			return c.Status
		}
	}
	t.Fatalf("card %q not in snapshot", id)
	return ""
}

func TestMatchingCorrectPair(t *testing.T) {
	h := newHarness(t, content.Matching, matchingBody)
	h.mustApply(Action{Kind: KindSelect, ID: "p1-a"})
	h.mustApply(Action{Kind: KindSelect, ID: "p1-b"})
	if got := matchingStatus(t, h.engine, "p1-a"); got != StatusCorrect {
		t.Fatalf("status during settle = %q, want correct", got)
	}
	h.wantErr(Action{Kind: KindSelect, ID: "p2-a"}, ErrLocked)

	h.clock.Advance(SettleDelay)
	if got := matchingStatus(t, h.engine, "p1-b"); got != StatusMatched {
		t.Fatalf("status after settle = %q, want matched", got)
	}
	if h.engine.Status().Score != 1 {
		t.Fatalf("score = %d, want 1", h.engine.Status().Score)
	}
	h.wantErr(Action{Kind: KindSelect, ID: "p1-a"}, ErrInvalidMove)

	h.mustApply(Action{Kind: KindSelect, ID: "p2-b"})
	h.mustApply(Action{Kind: KindSelect, ID: "p2-a"})
	h.clock.Advance(SettleDelay)
	if len(h.results) != 1 || !h.results[0].Success || h.results[0].Score != 2 || h.results[0].Max != 2 {
		t.Fatalf("results = %+v", h.results)
	}
}

func TestMatchingMismatchReturnsToPool(t *testing.T) {
	h := newHarness(t, content.Matching, matchingBody)
	h.mustApply(Action{Kind: KindSelect, ID: "p1-a"})
	h.mustApply(Action{Kind: KindSelect, ID: "p2-b"})
	if got := matchingStatus(t, h.engine, "p2-b"); got != StatusIncorrect {
		t.Fatalf("status = %q, want incorrect", got)
	}
	h.clock.Advance(SettleDelay)
	if got := matchingStatus(t, h.engine, "p2-b"); got != StatusIncorrect {
		t.Fatalf("mismatch cleared early: %q", got)
	}
	h.clock.Advance(MismatchDelay - SettleDelay)
	for _, id := range []string{"p1-a", "p2-b"} {
		if got := matchingStatus(t, h.engine, id); got != StatusDefault {
			t.Fatalf("%s status = %q, want default", id, got)
		}
	}
	if h.engine.Status().Score != 0 {
		t.Fatalf("score = %d, want 0", h.engine.Status().Score)
	}
}

func TestMatchingReselectSameSide(t *testing.T) {
	h := newHarness(t, content.Matching, matchingBody)
	h.mustApply(Action{Kind: KindSelect, ID: "p1-a"})
	h.mustApply(Action{Kind: KindSelect, ID: "p2-a"})
	if got := matchingStatus(t, h.engine, "p1-a"); got != StatusDefault {
		t.Fatalf("previous selection = %q, want default", got)
	}
	h.mustApply(Action{Kind: KindSelect, ID: "p2-a"})
	if got := matchingStatus(t, h.engine, "p2-a"); got != StatusDefault {
		t.Fatalf("toggle off = %q, want default", got)
	}
}
