// internal/game/flashcard.go
//
// Flashcard engine. The first flip completes the card.

package game

import (
	"context"

	"github.com/robalobadob/lingoplay/internal/content"
)

// FlashcardView is the flashcard snapshot. Back-side fields are empty until flipped.
type FlashcardView struct {
	HeaderView
	Word    string `json:"word"`
	Image   string `json:"image,omitempty"`
	Audio   string `json:"audio,omitempty"`
	Meaning string `json:"meaning,omitempty"`
	Flipped bool   `json:"flipped"`
}

type flashcardEngine struct {
	machine
	doc     *content.FlashcardDoc
	flipped bool
}

func newFlashcard(doc *content.FlashcardDoc, opts Options) *flashcardEngine {
	e := &flashcardEngine{doc: doc}
	e.init(content.Flashcard, opts)
	e.max = 1
	return e
}

func (e *flashcardEngine) Apply(_ context.Context, a Action) error {
	return e.run(func() error {
		switch a.Kind {
		case KindFlip:
			e.flipped = !e.flipped
			if e.flipped && !e.done {
				e.score = 1
				e.finish(true)
			}
			return nil
		case KindReset:
			e.restart()
			e.flipped = false
			return nil
		case KindLang:
			_, err := e.switchLang(a.Lang)
			return err
		}
		return unknownAction(a)
	})
}

func (e *flashcardEngine) Snapshot() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := FlashcardView{
		HeaderView: e.header(e.doc.Header),
		Word:       e.text(e.doc.Word),
		Image:      e.url(e.doc.Image),
		Audio:      e.url(e.doc.Audio),
		Flipped:    e.flipped,
	}
	if e.flipped {
		v.Meaning = e.text(e.doc.Meaning)
	}
	return v
}
