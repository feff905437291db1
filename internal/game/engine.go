// internal/game/engine.go
//
// Per-activity state machines.
// Responsibilities:
//   - Engine: the one interface every activity variant implements.
//   - Action: the uniform input event applied through Engine.Apply.
//   - New/Load: dispatch on the activity-type discriminator.
//
// Notes:
//   - GameState lives inside each engine instance; nothing is global.
//   - Settle/shake windows are deferred callbacks (see machine.after) guarded
//     by an epoch so a reset or language switch cancels stale transitions.
//   - Derived values (won, available tiles) are recomputed from state.

package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/lingoplay/internal/clock"
	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/i18n"
	"github.com/robalobadob/lingoplay/internal/pronounce"
	"github.com/robalobadob/lingoplay/internal/shuffle"
)

// Feedback windows shared by the matching-family engines.
const (
	SettleDelay   = 500 * time.Millisecond
	MismatchDelay = 1000 * time.Millisecond
	ShakeDelay    = 1000 * time.Millisecond
	MissDelay     = 1000 * time.Millisecond
)

// DefaultPassScore is the pronunciation grade needed to pass.
const DefaultPassScore = 0.7

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrUnknownID     = errors.New("unknown id")
	ErrLocked        = errors.New("input locked")
	ErrInvalidMove   = errors.New("invalid move")
	ErrIncomplete    = errors.New("activity incomplete")
	ErrAnswered      = errors.New("question already answered")
	ErrFinished      = errors.New("activity finished")
	ErrUnsupported   = errors.New("unsupported language")
	ErrClosed        = errors.New("engine closed")
)

// Action kinds.
const (
	KindLang     = "lang"
	KindReset    = "reset"
	KindRestart  = "restart"
	KindSelect   = "select"
	KindFlip     = "flip"
	KindLoad     = "load"
	KindShoot    = "shoot"
	KindMove     = "move"
	KindCheck    = "check"
	KindActivate = "activate"
	KindPlace    = "place"
	KindRemove   = "remove"
	KindAnswer   = "answer"
	KindNext     = "next"
	KindSubmit   = "submit"
	KindPlay     = "play"
	KindPause    = "pause"
	KindTick     = "tick"
	KindSeek     = "seek"
	KindDuration = "duration"
	KindEnd      = "end"
	KindError    = "error"
)

// Action is one user or media event. Fields are interpreted per kind.
type Action struct {
	Kind    string  `json:"kind"`
	ID      string  `json:"id,omitempty"`
	Target  string  `json:"target,omitempty"`
	Index   *int    `json:"index,omitempty"`
	Value   *bool   `json:"value,omitempty"`
	Time    float64 `json:"time,omitempty"`
	Lang    string  `json:"lang,omitempty"`
	Message string  `json:"message,omitempty"`
	Audio   []byte  `json:"audio,omitempty"`
}

// Status is the host-facing summary of one play-through.
type Status struct {
	Type      content.Type `json:"type"`
	Lang      i18n.Lang    `json:"lang"`
	Score     int          `json:"score"`
	Max       int          `json:"max"`
	Completed bool         `json:"completed"`
	Success   bool         `json:"success"`
	Locked    bool         `json:"locked"`
	Message   string       `json:"message,omitempty"`
}

// Result is emitted once when a play-through reaches its terminal state.
type Result struct {
	Type    content.Type `json:"type"`
	Score   int          `json:"score"`
	Max     int          `json:"max"`
	Success bool         `json:"success"`
}

// Engine is implemented by every activity variant.
type Engine interface {
	Type() content.Type
	// Apply validates and applies one action. Rejected actions leave state
	// unchanged apart from the feedback message.
	Apply(ctx context.Context, a Action) error
	// Snapshot returns the per-type view with text resolved for the active language.
	Snapshot() any
	Status() Status
	// Close cancels pending transitions; later Apply calls fail with ErrClosed.
	Close()
}

// Grader scores a pronunciation attempt.
type Grader interface {
	Grade(ctx context.Context, req pronounce.Request) (pronounce.Result, error)
}

// Options configure a new engine.
type Options struct {
	Lang       i18n.Lang
	Scheduler  clock.Scheduler
	Rand       shuffle.Source
	Media      i18n.Resolver
	Grader     Grader
	PassScore  float64
	OnComplete func(Result)
}

func (o Options) withDefaults() Options {
	if o.Lang == "" {
		o.Lang = i18n.DefaultLang
	}
	if o.Scheduler == nil {
		o.Scheduler = clock.Real{}
	}
	if o.Rand == nil {
		o.Rand = shuffle.Default
	}
	if o.PassScore <= 0 {
		o.PassScore = DefaultPassScore
	}
	return o
}

// New builds the engine for a decoded document.
func New(doc content.Content, opts Options) (Engine, error) {
	opts = opts.withDefaults()
	switch d := doc.(type) {
	case *content.FlashcardDoc:
		return newFlashcard(d, opts), nil
	case *content.MatchingDoc:
		return newMatching(d, opts), nil
	case *content.FillBlanksDoc:
		return newFillBlanks(d, opts), nil
	case *content.MCQDoc:
		return newMCQ(d, opts), nil
	case *content.TrueFalseDoc:
		return newTrueFalse(d, opts), nil
	case *content.PronunciationDoc:
		return newPronunciation(d, opts), nil
	case *content.ScrambleDoc:
		return newScramble(d, opts), nil
	case *content.TripleBlastDoc:
		return newTripleBlast(d, opts), nil
	case *content.BubbleBlastDoc:
		return newBubbleBlast(d, opts), nil
	case *content.MemoryPairDoc:
		return newMemoryPair(d, opts), nil
	case *content.GroupSorterDoc:
		return newGroupSorter(d, opts), nil
	case content.Timed:
		return newPlayer(d, opts), nil
	case nil:
		return nil, fmt.Errorf("%w: nil document", content.ErrUnknownType)
	}
	return nil, fmt.Errorf("%w: %v", content.ErrUnknownType, doc.Kind())
}

// Load decodes raw leniently and builds its engine. A malformed document
// still yields an inert engine; the decode error is returned alongside it.
func Load(t content.Type, raw []byte, opts Options) (Engine, error) {
	doc, decodeErr := content.Decode(t, raw)
	if doc == nil {
		return nil, decodeErr
	}
	e, err := New(doc, opts)
	if err != nil {
		return nil, err
	}
	return e, decodeErr
}

func unknownAction(a Action) error {
	return fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
}
