// internal/game/bubble.go
//
// Bubble-blast engine.
// A shooter is loaded, then shot at a target. A hit needs both a declared
// answer pair and matching text. Anything else is a miss, which locks the
// board for MissDelay and keeps the shooter loaded.

package game

import (
	"context"

	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/shuffle"
)

// BubbleView is the bubble-blast snapshot.
type BubbleView struct {
	HeaderView
	Targets  []BubbleTargetView  `json:"targets"`
	Shooters []BubbleShooterView `json:"shooters"`
	Loaded   string              `json:"loaded,omitempty"`
	Checking bool                `json:"checking"`
}

type BubbleTargetView struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Exploded bool   `json:"exploded"`
}

type BubbleShooterView struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Spent   bool   `json:"spent"`
}

type bubble struct {
	content.Item
	gone bool // exploded target or spent shooter
}

// bubbleEngine uses machine.locked as the isChecking guard.
type bubbleEngine struct {
	machine
	doc      *content.BubbleBlastDoc
	targets  []*bubble
	shooters []*bubble
	byTarget map[string]*bubble
	pairs    map[[2]string]struct{}
	loaded   string
}

func newBubbleBlast(doc *content.BubbleBlastDoc, opts Options) *bubbleEngine {
	e := &bubbleEngine{doc: doc}
	e.init(content.BubbleBlast, opts)
	e.pairs = make(map[[2]string]struct{}, len(doc.AnswerPairs))
	for _, p := range doc.AnswerPairs {
		e.pairs[[2]string{p.ShooterID, p.TargetID}] = struct{}{}
	}
	e.build()
	return e
}

func (e *bubbleEngine) build() {
	e.restart()
	e.byTarget = make(map[string]*bubble, len(e.doc.FixedBubbles))
	e.targets = make([]*bubble, 0, len(e.doc.FixedBubbles))
	for _, it := range e.doc.FixedBubbles {
		b := &bubble{Item: it}
		e.targets = append(e.targets, b)
		e.byTarget[it.ID] = b
	}
	e.shooters = make([]*bubble, 0, len(e.doc.ShootableBubbles))
	for _, it := range e.doc.ShootableBubbles {
		e.shooters = append(e.shooters, &bubble{Item: it})
	}
	shuffle.Slice(e.rng, e.targets)
	shuffle.Slice(e.rng, e.shooters)
	e.loaded = ""
	e.max = len(e.targets)
}

func (e *bubbleEngine) Apply(_ context.Context, a Action) error {
	return e.run(func() error {
		switch a.Kind {
		case KindLoad:
			return e.load(a.ID)
		case KindShoot:
			target := a.Target
			if target == "" {
				target = a.ID
			}
			return e.shoot(target)
		case KindReset:
			e.build()
			return nil
		case KindLang:
			_, err := e.switchLang(a.Lang)
			return err
		}
		return unknownAction(a)
	})
}

func (e *bubbleEngine) shooter(id string) *bubble {
	for _, b := range e.shooters {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (e *bubbleEngine) load(id string) error {
	if e.locked {
		return ErrLocked
	}
	s := e.shooter(id)
	if s == nil {
		return ErrUnknownID
	}
	if s.gone {
		return ErrInvalidMove
	}
	e.loaded = id
	e.message = ""
	return nil
}

func (e *bubbleEngine) shoot(targetID string) error {
	if e.locked {
		return ErrLocked
	}
	if e.loaded == "" {
		e.message = "Load a bubble first"
		return ErrInvalidMove
	}
	target, ok := e.byTarget[targetID]
	if !ok {
		return ErrUnknownID
	}
	if target.gone {
		return ErrInvalidMove
	}
	s := e.shooter(e.loaded)

	e.locked = true
	_, paired := e.pairs[[2]string{s.ID, target.ID}]
	if paired && e.text(s.Content) == e.text(target.Content) {
		target.gone = true
		s.gone = true
		e.loaded = ""
		e.score++
		e.message = "Pop!"
		if e.won() {
			e.message = "Every bubble popped!"
			e.finish(true)
		}
		e.after(SettleDelay, func() {
			e.locked = false
			if !e.done {
				e.message = ""
			}
		})
		return nil
	}
	e.message = "Missed, try another bubble"
	e.after(MissDelay, func() {
		e.locked = false
		e.message = ""
	})
	return nil
}

func (e *bubbleEngine) won() bool {
	for _, b := range e.targets {
		if !b.gone {
			return false
		}
	}
	return len(e.targets) > 0
}

func (e *bubbleEngine) Snapshot() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := BubbleView{
		HeaderView: e.header(e.doc.Header),
		Targets:    make([]BubbleTargetView, 0, len(e.targets)),
		Shooters:   make([]BubbleShooterView, 0, len(e.shooters)),
		Loaded:     e.loaded,
		Checking:   e.locked,
	}
	for _, b := range e.targets {
		v.Targets = append(v.Targets, BubbleTargetView{ID: b.ID, Content: e.text(b.Content), Exploded: b.gone})
	}
	for _, b := range e.shooters {
		v.Shooters = append(v.Shooters, BubbleShooterView{ID: b.ID, Content: e.text(b.Content), Spent: b.gone})
	}
	return v
}
