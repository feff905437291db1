// internal/game/matching.go
//
// Matching engine: pick one card from each side; a correct pair settles as
// matched, a wrong one returns to the pool.

package game

import (
	"context"

	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/shuffle"
)

// MatchingView is the matching snapshot: one flat shuffled deck from both sides.
type MatchingView struct {
	HeaderView
	Cards []MatchingCardView `json:"cards"`
}

type MatchingCardView struct {
	ID      string       `json:"id"`
	Side    content.Side `json:"side"`
	Content string       `json:"content"`
	Status  CardStatus   `json:"status"`
}

type matchingCard struct {
	content.MatchCard
	status CardStatus
}

// matchingEngine pairs one card from side A with one from side B.
// Cards of a pair share MatchID.
type matchingEngine struct {
	machine
	doc   *content.MatchingDoc
	cards []*matchingCard
	byID  map[string]*matchingCard
	selA  string
	selB  string
}

func newMatching(doc *content.MatchingDoc, opts Options) *matchingEngine {
	e := &matchingEngine{doc: doc}
	e.init(content.Matching, opts)
	e.build()
	return e
}

func (e *matchingEngine) build() {
	e.restart()
	e.cards = make([]*matchingCard, 0, len(e.doc.Cards))
	e.byID = make(map[string]*matchingCard, len(e.doc.Cards))
	pairs := make(map[string]struct{})
	for _, c := range e.doc.Cards {
		card := &matchingCard{MatchCard: c, status: StatusDefault}
		e.cards = append(e.cards, card)
		e.byID[c.ID] = card
		pairs[c.MatchID] = struct{}{}
	}
	shuffle.Slice(e.rng, e.cards)
	e.selA, e.selB = "", ""
	e.max = len(pairs)
}

func (e *matchingEngine) Apply(_ context.Context, a Action) error {
	return e.run(func() error {
		switch a.Kind {
		case KindSelect:
			return e.selectCard(a.ID)
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

func (e *matchingEngine) selectCard(id string) error {
	if e.locked {
		return ErrLocked
	}
	c, ok := e.byID[id]
	if !ok {
		return ErrUnknownID
	}
	if c.status == StatusMatched {
		return ErrInvalidMove
	}
	sel := &e.selA
	if c.Side == content.SideB {
		sel = &e.selB
	}
	switch *sel {
	case id:
		c.status = StatusDefault
		*sel = ""
		return nil
	case "":
	default:
		e.byID[*sel].status = StatusDefault
	}
	*sel = id
	c.status = StatusSelected
	e.message = ""
	if e.selA != "" && e.selB != "" {
		e.evaluate()
	}
	return nil
}

func (e *matchingEngine) evaluate() {
	a, b := e.byID[e.selA], e.byID[e.selB]
	e.locked = true
	if a.MatchID == b.MatchID {
		a.status, b.status = StatusCorrect, StatusCorrect
		e.message = "Correct!"
		e.after(SettleDelay, func() {
			a.status, b.status = StatusMatched, StatusMatched
			e.selA, e.selB = "", ""
			e.locked = false
			e.score++
			if e.won() {
				e.message = "All pairs matched!"
				e.finish(true)
			}
		})
		return
	}
	a.status, b.status = StatusIncorrect, StatusIncorrect
	e.message = "Not a match, try again"
	e.after(MismatchDelay, func() {
		a.status, b.status = StatusDefault, StatusDefault
		e.selA, e.selB = "", ""
		e.locked = false
		e.message = ""
	})
}

func (e *matchingEngine) won() bool {
	for _, c := range e.cards {
		if c.status != StatusMatched {
			return false
		}
	}
	return len(e.cards) > 0
}

func (e *matchingEngine) Snapshot() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := MatchingView{HeaderView: e.header(e.doc.Header), Cards: make([]MatchingCardView, 0, len(e.cards))}
	for _, c := range e.cards {
		v.Cards = append(v.Cards, MatchingCardView{ID: c.ID, Side: c.Side, Content: e.text(c.Content), Status: c.status})
	}
	return v
}
