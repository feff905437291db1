// internal/media/cursor.go
//
// Segment cursor for time-synchronized players.
//
// Update is called on every time-update tick and on explicit seeks:
//   1. Forward: if the next segment has started, step one index and stop.
//      Natural playback ticks far more often than segments change, so a
//      single comparison per tick is enough.
//   2. Seek only: if time is before the current segment, scan backward for
//      the greatest index whose timestamp ≤ time, clamping to 0.
//
// Re-evaluating at an unchanged time never moves the index.

package media

// Cursor tracks the current segment over one language track.
type Cursor struct {
	times []float64
	index int
}

// NewCursor copies times (ascending seconds) into a cursor at index 0.
func NewCursor(times []float64) *Cursor {
	c := &Cursor{}
	c.Load(times)
	return c
}

// Load replaces the track and resets to index 0.
func (c *Cursor) Load(times []float64) {
	c.times = append(c.times[:0], times...)
	c.index = 0
}

// Index is the current segment index (0 for an empty track).
func (c *Cursor) Index() int { return c.index }

// Len is the number of segments on the track.
func (c *Cursor) Len() int { return len(c.times) }

// Reset returns to the first segment.
func (c *Cursor) Reset() { c.index = 0 }

// Update applies one tick at time t and returns the resulting index.
func (c *Cursor) Update(t float64, seek bool) int {
	if len(c.times) == 0 {
		return c.index
	}
	if next := c.index + 1; next < len(c.times) && t >= c.times[next] {
		c.index = next
		return c.index
	}
	if seek && t < c.times[c.index] {
		i := c.index
		for i > 0 && c.times[i] > t {
			i--
		}
		c.index = i
	}
	return c.index
}
