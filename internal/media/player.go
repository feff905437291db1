// internal/media/player.go
//
// Transport state for a media-driven activity: play, pause, tick, seek and end.

package media

import (
	"errors"
	"math"
)

// ErrNoSource is returned by Play when no media URL is loaded.
var ErrNoSource = errors.New("no media source")

// State is the transport view exposed to the host's play/pause/seek controls.
type State struct {
	Index       int     `json:"index"`
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
	Playing     bool    `json:"playing"`
	Ended       bool    `json:"ended"`
	Source      string  `json:"source"`
	Error       string  `json:"error,omitempty"`
}

// Player couples a Cursor with transport state. It is not safe for
// concurrent use; the owning engine serializes access.
type Player struct {
	cursor      Cursor
	currentTime float64
	duration    float64
	playing     bool
	ended       bool
	source      string
	err         string
}

// NewPlayer returns an empty, paused player.
func NewPlayer() *Player { return &Player{} }

// Load swaps in a new track and source, as on a language switch.
// Index, time and playing state all reset.
func (p *Player) Load(times []float64, source string) {
	p.cursor.Load(times)
	p.currentTime = 0
	p.duration = 0
	p.playing = false
	p.ended = false
	p.source = source
	p.err = ""
}

// Play starts playback. Playback failures reported later via Fail leave
// the player retryable.
func (p *Player) Play() error {
	if p.source == "" {
		p.err = ErrNoSource.Error()
		return ErrNoSource
	}
	p.err = ""
	p.ended = false
	p.playing = true
	return nil
}

// Pause stops playback without moving the cursor.
func (p *Player) Pause() { p.playing = false }

// Tick records a natural time-update from the media element.
func (p *Player) Tick(t float64) int {
	p.currentTime = p.clamp(t)
	return p.cursor.Update(p.currentTime, false)
}

// Seek records an explicit user seek and may move the cursor backward.
func (p *Player) Seek(t float64) int {
	p.currentTime = p.clamp(t)
	p.ended = false
	return p.cursor.Update(p.currentTime, true)
}

// SetDuration records the media duration once metadata is known.
func (p *Player) SetDuration(d float64) {
	if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		d = 0
	}
	p.duration = d
}

// End handles the media element's ended event.
func (p *Player) End() {
	p.cursor.Reset()
	p.currentTime = 0
	p.playing = false
	p.ended = true
}

// Fail records a non-fatal playback error (autoplay blocked, decode failure).
func (p *Player) Fail(msg string) {
	if msg == "" {
		msg = "playback failed"
	}
	p.playing = false
	p.err = msg
}

// Index is the current segment index.
func (p *Player) Index() int { return p.cursor.Index() }

// State snapshots the transport.
func (p *Player) State() State {
	return State{
		Index:       p.cursor.Index(),
		CurrentTime: p.currentTime,
		Duration:    p.duration,
		Playing:     p.playing,
		Ended:       p.ended,
		Source:      p.source,
		Error:       p.err,
	}
}

func (p *Player) clamp(t float64) float64 {
	if t < 0 || math.IsNaN(t) {
		return 0
	}
	if p.duration > 0 && t > p.duration {
		return p.duration
	}
	return t
}
