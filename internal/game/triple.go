// internal/game/triple.go
//
// Triple-blast engine: select three tiles that belong together.

package game

import (
	"context"
	"slices"

	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/shuffle"
)

// TripleView is the triple-blast snapshot. Hidden tiles stay in the list
// so the board layout is stable.
type TripleView struct {
	HeaderView
	Tiles    []TileView `json:"tiles"`
	Selected []string   `json:"selected"`
}

type TileView struct {
	ID      string     `json:"id"`
	Content string     `json:"content"`
	Status  CardStatus `json:"status"`
}

type tripleTile struct {
	content.Item
	status CardStatus
}

type tripleEngine struct {
	machine
	doc      *content.TripleBlastDoc
	tiles    []*tripleTile
	byID     map[string]*tripleTile
	selected []*tripleTile
}

func newTripleBlast(doc *content.TripleBlastDoc, opts Options) *tripleEngine {
	e := &tripleEngine{doc: doc}
	e.init(content.TripleBlast, opts)
	e.build()
	return e
}

func (e *tripleEngine) build() {
	e.restart()
	e.tiles = make([]*tripleTile, 0, len(e.doc.Tiles))
	e.byID = make(map[string]*tripleTile, len(e.doc.Tiles))
	for _, t := range e.doc.Tiles {
		tile := &tripleTile{Item: t, status: StatusDefault}
		e.tiles = append(e.tiles, tile)
		e.byID[t.ID] = tile
	}
	shuffle.Slice(e.rng, e.tiles)
	e.selected = nil
	e.max = len(e.tiles)
}

func (e *tripleEngine) Apply(_ context.Context, a Action) error {
	return e.run(func() error {
		switch a.Kind {
		case KindSelect:
			return e.toggle(a.ID)
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

func (e *tripleEngine) toggle(id string) error {
	if e.locked {
		return ErrLocked
	}
	t, ok := e.byID[id]
	if !ok {
		return ErrUnknownID
	}
	switch t.status {
	case StatusSelected:
		t.status = StatusDefault
		e.selected = slices.DeleteFunc(e.selected, func(s *tripleTile) bool { return s == t })
		return nil
	case StatusDefault:
	default:
		return ErrInvalidMove
	}
	t.status = StatusSelected
	e.message = ""
	e.selected = append(e.selected, t)
	if len(e.selected) == 3 {
		e.evaluate()
	}
	return nil
}

func (e *tripleEngine) evaluate() {
	sel := e.selected
	e.locked = true
	if e.isGroup(sel) {
		for _, t := range sel {
			t.status = StatusMatchTemp
		}
		e.message = "Blast!"
		e.after(SettleDelay, func() {
			for _, t := range sel {
				t.status = StatusHidden
			}
			e.selected = nil
			e.locked = false
			e.score += 3
			if e.won() {
				e.message = "Board cleared!"
				e.finish(true)
			}
		})
		return
	}
	for _, t := range sel {
		t.status = StatusWrongTemp
	}
	e.message = "Those don't go together"
	e.after(ShakeDelay, func() {
		for _, t := range sel {
			t.status = StatusDefault
		}
		e.selected = nil
		e.locked = false
		e.message = ""
	})
}

// isGroup reports whether sel is a subset of a declared group. When no group
// matches, three tiles with identical resolved text still count.
func (e *tripleEngine) isGroup(sel []*tripleTile) bool {
	for _, g := range e.doc.Groups {
		all := true
		for _, t := range sel {
			if !slices.Contains(g.TileIDs, t.ID) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	first := e.text(sel[0].Content)
	for _, t := range sel[1:] {
		if e.text(t.Content) != first {
			return false
		}
	}
	return true
}

func (e *tripleEngine) won() bool {
	for _, t := range e.tiles {
		if t.status != StatusHidden {
			return false
		}
	}
	return len(e.tiles) > 0
}

func (e *tripleEngine) Snapshot() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := TripleView{
		HeaderView: e.header(e.doc.Header),
		Tiles:      make([]TileView, 0, len(e.tiles)),
		Selected:   make([]string, 0, len(e.selected)),
	}
	for _, t := range e.tiles {
		v.Tiles = append(v.Tiles, TileView{ID: t.ID, Content: e.text(t.Content), Status: t.status})
	}
	for _, t := range e.selected {
		v.Selected = append(v.Selected, t.ID)
	}
	return v
}
