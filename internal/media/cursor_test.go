package media

import (
	"errors"
	"testing"
)

func TestCursorNaturalPlayback(t *testing.T) {
	c := NewCursor([]float64{0, 5, 10})
	times := []float64{0, 1, 4, 5, 6, 9, 10, 11}
	want := []int{0, 0, 0, 1, 1, 1, 2, 2}
	for i, tm := range times {
		if got := c.Update(tm, false); got != want[i] {
			t.Fatalf("Update(%v) = %d, want %d", tm, got, want[i])
		}
	}
}

func TestCursorSeekBackward(t *testing.T) {
	c := NewCursor([]float64{0, 5, 10})
	c.Update(5, false)
	c.Update(10, false)
	if c.Index() != 2 {
		t.Fatalf("setup index = %d, want 2", c.Index())
	}
	if got := c.Update(2, true); got != 0 {
		t.Fatalf("seek to 2 from index 2 = %d, want 0", got)
	}
}

func TestCursorSeekForward(t *testing.T) {
	c := NewCursor([]float64{0, 5, 10})
	if got := c.Update(7, true); got != 1 {
		t.Fatalf("seek to 7 from index 0 = %d, want 1", got)
	}
}

func TestCursorNaturalTickDoesNotRewind(t *testing.T) {
	c := NewCursor([]float64{0, 5, 10})
	c.Update(5, false)
	if got := c.Update(2, false); got != 1 {
		t.Fatalf("non-seek tick before current segment moved index to %d", got)
	}
}

func TestCursorIdempotentAtSameTime(t *testing.T) {
	c := NewCursor([]float64{0, 5, 10})
	c.Update(6, false)
	for i := 0; i < 3; i++ {
		if got := c.Update(6, false); got != 1 {
			t.Fatalf("repeat tick moved index to %d", got)
		}
		if got := c.Update(6, true); got != 1 {
			t.Fatalf("repeat seek moved index to %d", got)
		}
	}
}

func TestCursorSeekClampsToZero(t *testing.T) {
	c := NewCursor([]float64{3, 5, 10})
	c.Update(5, false)
	if got := c.Update(1, true); got != 0 {
		t.Fatalf("seek before first cue = %d, want 0", got)
	}
}

func TestCursorEqualTimestamps(t *testing.T) {
	c := NewCursor([]float64{0, 4, 4, 8})
	c.Update(4, false)
	c.Update(4, false)
	if c.Index() != 2 {
		t.Fatalf("index = %d, want 2", c.Index())
	}
	if got := c.Update(4, true); got != 2 {
		t.Fatalf("seek to same time = %d, want 2", got)
	}
}

func TestCursorEmptyTrack(t *testing.T) {
	c := NewCursor(nil)
	if got := c.Update(10, true); got != 0 {
		t.Fatalf("empty track index = %d", got)
	}
}

func TestPlayerLifecycle(t *testing.T) {
	p := NewPlayer()
	if err := p.Play(); !errors.Is(err, ErrNoSource) {
		t.Fatalf("Play() without source = %v, want ErrNoSource", err)
	}
	if p.State().Error == "" {
		t.Fatal("expected a user-facing error message")
	}

	p.Load([]float64{0, 5, 10}, "https://cdn.example.com/song.mp3")
	p.SetDuration(12)
	if err := p.Play(); err != nil {
		t.Fatalf("Play() = %v", err)
	}
	p.Tick(5)
	p.Tick(10)
	p.Tick(30)
	st := p.State()
	if st.Index != 2 || st.CurrentTime != 12 || !st.Playing {
		t.Fatalf("state = %+v", st)
	}

	p.Fail("autoplay blocked")
	if p.State().Playing || p.State().Error != "autoplay blocked" {
		t.Fatalf("state after Fail = %+v", p.State())
	}
	if err := p.Play(); err != nil || p.State().Error != "" {
		t.Fatalf("retry after failure: err=%v state=%+v", err, p.State())
	}

	p.End()
	st = p.State()
	if st.Index != 0 || st.CurrentTime != 0 || st.Playing || !st.Ended {
		t.Fatalf("state after End = %+v", st)
	}
}

func TestPlayerLoadResets(t *testing.T) {
	p := NewPlayer()
	p.Load([]float64{0, 5}, "a.mp3")
	p.Tick(6)
	p.Load([]float64{0, 2, 4}, "b.mp3")
	st := p.State()
	if st.Index != 0 || st.CurrentTime != 0 || st.Source != "b.mp3" {
		t.Fatalf("state after Load = %+v", st)
	}
}
