// internal/game/memory.go
//
// Memory-pair engine. Cards start face down; two flips either settle into a
// matched pair or flip back after MismatchDelay. Only the declared answer
// pairs match, in either order.

package game

import (
	"context"

	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/shuffle"
)

// MemoryView is the memory-pair snapshot. Hidden cards carry no content.
type MemoryView struct {
	HeaderView
	Cards []MemoryCardView `json:"cards"`
}

type MemoryCardView struct {
	ID      string     `json:"id"`
	Content string     `json:"content,omitempty"`
	Status  CardStatus `json:"status"`
}

type memoryCard struct {
	content.Item
	status CardStatus
}

type memoryEngine struct {
	machine
	doc     *content.MemoryPairDoc
	cards   []*memoryCard
	byID    map[string]*memoryCard
	pairs   map[[2]string]struct{}
	flipped []*memoryCard
}

func newMemoryPair(doc *content.MemoryPairDoc, opts Options) *memoryEngine {
	e := &memoryEngine{doc: doc}
	e.init(content.MemoryPair, opts)
	e.pairs = make(map[[2]string]struct{}, 2*len(doc.AnswerPairs))
	for _, p := range doc.AnswerPairs {
		e.pairs[[2]string{p.A, p.B}] = struct{}{}
		e.pairs[[2]string{p.B, p.A}] = struct{}{}
	}
	e.build()
	return e
}

func (e *memoryEngine) build() {
	e.restart()
	e.cards = make([]*memoryCard, 0, len(e.doc.Cards))
	e.byID = make(map[string]*memoryCard, len(e.doc.Cards))
	for _, c := range e.doc.Cards {
		card := &memoryCard{Item: c, status: StatusHidden}
		e.cards = append(e.cards, card)
		e.byID[c.ID] = card
	}
	shuffle.Slice(e.rng, e.cards)
	e.flipped = nil
	e.max = len(e.cards) / 2
}

func (e *memoryEngine) Apply(_ context.Context, a Action) error {
	return e.run(func() error {
		switch a.Kind {
		case KindFlip, KindSelect:
			return e.flip(a.ID)
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

func (e *memoryEngine) flip(id string) error {
	if e.locked {
		return ErrLocked
	}
	c, ok := e.byID[id]
	if !ok {
		return ErrUnknownID
	}
	if c.status != StatusHidden {
		return ErrInvalidMove
	}
	c.status = StatusFlipped
	e.message = ""
	e.flipped = append(e.flipped, c)
	if len(e.flipped) < 2 {
		return nil
	}

	a, b := e.flipped[0], e.flipped[1]
	e.locked = true
	if _, ok := e.pairs[[2]string{a.ID, b.ID}]; ok {
		e.message = "It's a match!"
		e.after(SettleDelay, func() {
			a.status, b.status = StatusMatched, StatusMatched
			e.flipped = nil
			e.locked = false
			e.score++
			if e.won() {
				e.message = "You found every pair!"
				e.finish(true)
			}
		})
		return nil
	}
	e.message = "Not a pair"
	e.after(MismatchDelay, func() {
		a.status, b.status = StatusHidden, StatusHidden
		e.flipped = nil
		e.locked = false
		e.message = ""
	})
	return nil
}

func (e *memoryEngine) won() bool {
	for _, c := range e.cards {
		if c.status != StatusMatched {
			return false
		}
	}
	return len(e.cards) > 0
}

func (e *memoryEngine) Snapshot() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := MemoryView{HeaderView: e.header(e.doc.Header), Cards: make([]MemoryCardView, 0, len(e.cards))}
	for _, c := range e.cards {
		cv := MemoryCardView{ID: c.ID, Status: c.status}
		if c.status != StatusHidden {
			cv.Content = e.text(c.Content)
		}
		v.Cards = append(v.Cards, cv)
	}
	return v
}
