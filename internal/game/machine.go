// internal/game/machine.go
//
// State shared by every engine.
// Responsibilities:
//   - One mutex per engine; Apply, Snapshot and deferred callbacks all take it.
//   - Deferred transitions tagged with an epoch. Reset, language switch and
//     Close bump the epoch and stop pending timers.
//   - Completion: finish records a Result once, emitted after the lock is released.

package game

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lingoplay/internal/clock"
	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/i18n"
	"github.com/robalobadob/lingoplay/internal/shuffle"
)

// Card and tile states shared by the engines.
type CardStatus string

const (
	StatusDefault   CardStatus = "default"
	StatusSelected  CardStatus = "selected"
	StatusCorrect   CardStatus = "correct"
	StatusIncorrect CardStatus = "incorrect"
	StatusMatched   CardStatus = "matched"
	StatusHidden    CardStatus = "hidden"
	StatusFlipped   CardStatus = "flipped"
	StatusMatchTemp CardStatus = "matched_temp"
	StatusWrongTemp CardStatus = "incorrect_temp"
)

// HeaderView is the resolved title and instruction carried by every snapshot.
type HeaderView struct {
	Type        content.Type `json:"type"`
	Lang        i18n.Lang    `json:"lang"`
	Title       string       `json:"title"`
	Instruction string       `json:"instruction"`
}

// machine is the state every engine embeds: one mutex, the scheduler for
// deferred transitions and the epoch that invalidates them.
type machine struct {
	mu sync.Mutex

	typ    content.Type
	sched  clock.Scheduler
	rng    shuffle.Source
	media  i18n.Resolver
	notify func(Result)

	lang    i18n.Lang
	epoch   uint64
	timers  []clock.Timer
	locked  bool
	score   int
	max     int
	done    bool
	success bool
	message string
	pending *Result
	closed  bool
}

func (m *machine) init(typ content.Type, opts Options) {
	m.typ = typ
	m.sched = opts.Scheduler
	m.rng = opts.Rand
	m.media = opts.Media
	m.notify = opts.OnComplete
	m.lang = opts.Lang
}

func (m *machine) Type() content.Type { return m.typ }

func (m *machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		Type:      m.typ,
		Lang:      m.lang,
		Score:     m.score,
		Max:       m.max,
		Completed: m.done,
		Success:   m.success,
		Locked:    m.locked,
		Message:   m.message,
	}
}

func (m *machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cancel()
}

// run applies fn under the lock and emits any completion it produced.
func (m *machine) run(fn func() error) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	err := fn()
	res := m.pending
	m.pending = nil
	m.mu.Unlock()
	m.emit(res)
	return err
}

// after schedules fn as a deferred transition of the current epoch.
// Must be called with the lock held.
func (m *machine) after(d time.Duration, fn func()) {
	epoch := m.epoch
	var t clock.Timer
	t = m.sched.AfterFunc(d, func() {
		m.mu.Lock()
		m.timers = slices.DeleteFunc(m.timers, func(x clock.Timer) bool { return x == t })
		if m.closed || m.epoch != epoch {
			m.mu.Unlock()
			log.Debug().Str("type", m.typ.String()).Uint64("epoch", epoch).Msg("stale transition dropped")
			return
		}
		fn()
		res := m.pending
		m.pending = nil
		m.mu.Unlock()
		m.emit(res)
	})
	m.timers = append(m.timers, t)
}

// cancel stops every pending transition and advances the epoch.
func (m *machine) cancel() {
	m.epoch++
	for _, t := range m.timers {
		t.Stop()
	}
	m.timers = nil
}

// restart cancels transitions and clears the shared counters.
func (m *machine) restart() {
	m.cancel()
	m.locked = false
	m.score = 0
	m.done = false
	m.success = false
	m.message = ""
	m.pending = nil
}

// finish marks the play-through terminal. Only the first call records a result.
func (m *machine) finish(success bool) {
	if m.done {
		return
	}
	m.done = true
	m.success = success
	m.pending = &Result{Type: m.typ, Score: m.score, Max: m.max, Success: success}
}

func (m *machine) emit(res *Result) {
	if res == nil || m.notify == nil {
		return
	}
	m.notify(*res)
}

// switchLang parses value and reports whether the active language changed.
func (m *machine) switchLang(value string) (bool, error) {
	lang, ok := i18n.ParseLang(value)
	if !ok {
		return false, ErrUnsupported
	}
	if lang == m.lang {
		return false, nil
	}
	m.lang = lang
	return true, nil
}

func (m *machine) text(t i18n.Text) string { return i18n.Resolve(t, m.lang, "") }

func (m *machine) url(t i18n.Text) string { return m.media.Media(t, m.lang) }

func (m *machine) header(h content.Header) HeaderView {
	return HeaderView{
		Type:        m.typ,
		Lang:        m.lang,
		Title:       i18n.Resolve(h.Title, m.lang, "Untitled"),
		Instruction: m.text(h.Instruction),
	}
}
