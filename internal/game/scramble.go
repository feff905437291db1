// internal/game/scramble.go
//
// Word-scramble engine.
// Responsibilities:
//   - Split the answer into grapheme tiles and shuffle them.
//   - Place tiles into slots and remove them; the available row keeps the
//     scrambled order.
//   - Check compares the spelled word with the normalized answer.

package game

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/shuffle"
)

// ScrambleView is the word-scramble snapshot. Available is always in
// scrambled order regardless of how tiles were removed.
type ScrambleView struct {
	HeaderView
	Hint      string       `json:"hint,omitempty"`
	Image     string       `json:"image,omitempty"`
	Slots     []SlotView   `json:"slots"`
	Available []LetterView `json:"available"`
	Feedback  CardStatus   `json:"feedback"`
}

type SlotView struct {
	Index  int    `json:"index"`
	TileID string `json:"tileId,omitempty"`
	Letter string `json:"letter,omitempty"`
}

type LetterView struct {
	ID     string `json:"id"`
	Letter string `json:"letter"`
}

type scrambleTile struct {
	id     string
	letter string
}

type scrambleEngine struct {
	machine
	doc      *content.ScrambleDoc
	answer   string
	tiles    []*scrambleTile // scrambled order, fixed for the play-through
	slots    []*scrambleTile
	feedback CardStatus
}

// reshuffles bounds the retries spent avoiding a scramble equal to the answer.
const reshuffles = 8

func newScramble(doc *content.ScrambleDoc, opts Options) *scrambleEngine {
	e := &scrambleEngine{doc: doc}
	e.init(content.Scramble, opts)
	e.build()
	return e
}

// NormalizeAnswer lower-cases and NFC-normalizes an answer for comparison.
func NormalizeAnswer(s string) string {
	return norm.NFC.String(cases.Lower(language.Und).String(strings.TrimSpace(s)))
}

// Graphemes splits s into user-perceived characters, so Tamil and Sinhala
// letters with combining vowel signs stay on one tile.
func Graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

func (e *scrambleEngine) build() {
	e.restart()
	e.answer = NormalizeAnswer(e.text(e.doc.Answer))
	letters := Graphemes(e.answer)
	e.tiles = make([]*scrambleTile, len(letters))
	for i, l := range letters {
		e.tiles[i] = &scrambleTile{letter: l}
	}
	for range reshuffles {
		shuffle.Slice(e.rng, e.tiles)
		if !e.solvedOrder() {
			break
		}
	}
	// Ids follow the scrambled row so they do not leak answer positions.
	for i, t := range e.tiles {
		t.id = "t" + strconv.Itoa(i)
	}
	e.slots = make([]*scrambleTile, len(letters))
	e.feedback = StatusDefault
	e.max = 1
}

// solvedOrder reports whether the scrambled row already spells the answer.
func (e *scrambleEngine) solvedOrder() bool {
	var b strings.Builder
	for _, t := range e.tiles {
		b.WriteString(t.letter)
	}
	return len(e.tiles) > 1 && b.String() == e.answer
}

func (e *scrambleEngine) Apply(_ context.Context, a Action) error {
	return e.run(func() error {
		switch a.Kind {
		case KindPlace, KindSelect:
			return e.place(a.ID, a.Index)
		case KindRemove:
			return e.remove(a.ID, a.Index)
		case KindCheck:
			return e.check()
		case KindReset:
			e.build()
			return nil
		case KindLang:
			changed, err := e.switchLang(a.Lang)
			if changed {
				e.build()
			}
			return err
		}
		return unknownAction(a)
	})
}

func (e *scrambleEngine) tile(id string) *scrambleTile {
	for _, t := range e.tiles {
		if t.id == id {
			return t
		}
	}
	return nil
}

// place puts tile id into slot index, or the first empty slot when index is nil.
func (e *scrambleEngine) place(id string, index *int) error {
	if e.feedback != StatusDefault {
		return ErrLocked
	}
	t := e.tile(id)
	if t == nil {
		return ErrUnknownID
	}
	if slices.Contains(e.slots, t) {
		return ErrInvalidMove
	}
	i := slices.Index(e.slots, nil)
	if index != nil {
		i = *index
	}
	if i < 0 || i >= len(e.slots) || e.slots[i] != nil {
		return ErrInvalidMove
	}
	e.slots[i] = t
	e.message = ""
	return nil
}

// remove clears a slot, addressed by index or by the tile it holds. Removing
// after a failed check clears the feedback so the player can fix the word.
func (e *scrambleEngine) remove(id string, index *int) error {
	if e.feedback == StatusCorrect {
		return ErrLocked
	}
	i := -1
	if index != nil {
		i = *index
	} else if t := e.tile(id); t != nil {
		i = slices.Index(e.slots, t)
	}
	if i < 0 || i >= len(e.slots) || e.slots[i] == nil {
		return ErrInvalidMove
	}
	e.slots[i] = nil
	e.feedback = StatusDefault
	e.message = ""
	return nil
}

func (e *scrambleEngine) check() error {
	if e.feedback == StatusCorrect {
		return ErrFinished
	}
	if len(e.slots) == 0 || slices.Contains(e.slots, nil) {
		e.message = "Fill every slot first"
		return ErrIncomplete
	}
	var b strings.Builder
	for _, t := range e.slots {
		b.WriteString(t.letter)
	}
	if b.String() == e.answer {
		e.feedback = StatusCorrect
		e.score = 1
		e.message = "Correct!"
		e.finish(true)
		return nil
	}
	e.feedback = StatusIncorrect
	e.message = "Not quite, try again"
	return nil
}

func (e *scrambleEngine) Snapshot() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := ScrambleView{
		HeaderView: e.header(e.doc.Header),
		Hint:       e.text(e.doc.Hint),
		Image:      e.url(e.doc.Image),
		Slots:      make([]SlotView, len(e.slots)),
		Available:  []LetterView{},
		Feedback:   e.feedback,
	}
	for i, t := range e.slots {
		v.Slots[i] = SlotView{Index: i}
		if t != nil {
			v.Slots[i].TileID = t.id
			v.Slots[i].Letter = t.letter
		}
	}
	for _, t := range e.tiles {
		if !slices.Contains(e.slots, t) {
			v.Available = append(v.Available, LetterView{ID: t.id, Letter: t.letter})
		}
	}
	return v
}
