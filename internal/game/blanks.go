// internal/game/blanks.go
//
// Fill-in-the-blanks engine.
// Responsibilities:
//   - Activate a blank, place an option into it, remove it again.
//   - Options with identical text are interchangeable when freed.
//   - Check grades every blank against its expected text.

package game

import (
	"context"

	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/shuffle"
)

// BlanksView is the fill-in-the-blanks snapshot.
type BlanksView struct {
	HeaderView
	Segments []SegmentView `json:"segments"`
	Options  []OptionView  `json:"options"`
	Active   string        `json:"active,omitempty"`
}

// SegmentView is a TEXT run or a BLANK with the player's answer. Blank
// content is never exposed; Status is set only after a check.
type SegmentView struct {
	ID     string     `json:"id"`
	Type   string     `json:"type"`
	Text   string     `json:"text,omitempty"`
	Answer string     `json:"answer,omitempty"`
	Status CardStatus `json:"status,omitempty"`
}

type OptionView struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Available bool   `json:"available"`
}

type blankOption struct {
	content.Item
	used bool
}

type blanksEngine struct {
	machine
	doc     *content.FillBlanksDoc
	blanks  map[string]content.Segment
	options []*blankOption
	answers map[string]string
	results map[string]bool
	active  string
}

func newFillBlanks(doc *content.FillBlanksDoc, opts Options) *blanksEngine {
	e := &blanksEngine{doc: doc}
	e.init(content.FillBlanks, opts)
	e.blanks = make(map[string]content.Segment)
	for _, s := range doc.Blanks() {
		e.blanks[s.ID] = s
	}
	e.build()
	return e
}

func (e *blanksEngine) build() {
	e.restart()
	e.options = make([]*blankOption, 0, len(e.doc.Options))
	for _, o := range e.doc.Options {
		e.options = append(e.options, &blankOption{Item: o})
	}
	shuffle.Slice(e.rng, e.options)
	e.answers = make(map[string]string, len(e.blanks))
	e.results = nil
	e.active = ""
	e.max = len(e.blanks)
}

func (e *blanksEngine) Apply(_ context.Context, a Action) error {
	return e.run(func() error {
		switch a.Kind {
		case KindActivate, KindSelect:
			return e.activate(a.ID)
		case KindPlace:
			return e.place(a.ID)
		case KindRemove:
			return e.remove(a.ID)
		case KindCheck:
			return e.check()
		case KindReset:
			e.build()
			return nil
		case KindLang:
			// Placed answers are text in the old language.
			changed, err := e.switchLang(a.Lang)
			if changed {
				e.build()
			}
			return err
		}
		return unknownAction(a)
	})
}

func (e *blanksEngine) activate(id string) error {
	if e.done {
		return ErrFinished
	}
	if _, ok := e.blanks[id]; !ok {
		return ErrUnknownID
	}
	if e.active == id {
		e.active = ""
	} else {
		e.active = id
	}
	return nil
}

func (e *blanksEngine) place(optionID string) error {
	if e.done {
		return ErrFinished
	}
	if e.active == "" {
		e.message = "Choose a blank first"
		return ErrInvalidMove
	}
	var opt *blankOption
	for _, o := range e.options {
		if o.ID == optionID {
			opt = o
			break
		}
	}
	if opt == nil {
		return ErrUnknownID
	}
	if opt.used {
		return ErrInvalidMove
	}
	text := e.text(opt.Content)
	if text == "" {
		e.message = "This option has no text"
		return ErrInvalidMove
	}
	if prev := e.answers[e.active]; prev != "" {
		e.free(prev)
	}
	e.answers[e.active] = text
	opt.used = true
	e.active = ""
	e.results = nil
	e.message = ""
	return nil
}

func (e *blanksEngine) remove(blankID string) error {
	if e.done {
		return ErrFinished
	}
	if _, ok := e.blanks[blankID]; !ok {
		return ErrUnknownID
	}
	prev := e.answers[blankID]
	if prev == "" {
		return ErrInvalidMove
	}
	e.free(prev)
	delete(e.answers, blankID)
	e.results = nil
	e.message = ""
	return nil
}

// free returns the first consumed option whose resolved text equals text.
// Options with identical text are interchangeable.
func (e *blanksEngine) free(text string) {
	for _, o := range e.options {
		if o.used && e.text(o.Content) == text {
			o.used = false
			return
		}
	}
}

func (e *blanksEngine) check() error {
	if e.done {
		return ErrFinished
	}
	if len(e.blanks) == 0 {
		return ErrIncomplete
	}
	for id := range e.blanks {
		if e.answers[id] == "" {
			e.message = "Fill every blank first"
			return ErrIncomplete
		}
	}
	e.results = make(map[string]bool, len(e.blanks))
	correct := 0
	for id, seg := range e.blanks {
		ok := e.answers[id] == e.text(seg.Content)
		e.results[id] = ok
		if ok {
			correct++
		}
	}
	e.score = max(e.score, correct)
	if correct == len(e.blanks) {
		e.message = "Well done!"
		e.finish(true)
		return nil
	}
	e.message = "Some answers are not right yet"
	return nil
}

func (e *blanksEngine) Snapshot() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := BlanksView{
		HeaderView: e.header(e.doc.Header),
		Segments:   make([]SegmentView, 0, len(e.doc.Segments)),
		Options:    make([]OptionView, 0, len(e.options)),
		Active:     e.active,
	}
	for _, s := range e.doc.Segments {
		sv := SegmentView{ID: s.ID, Type: s.Type}
		if !s.IsBlank() {
			sv.Text = e.text(s.Content)
		} else {
			sv.Answer = e.answers[s.ID]
			if ok, checked := e.results[s.ID]; checked {
				sv.Status = StatusIncorrect
				if ok {
					sv.Status = StatusCorrect
				}
			}
		}
		v.Segments = append(v.Segments, sv)
	}
	for _, o := range e.options {
		v.Options = append(v.Options, OptionView{ID: o.ID, Content: e.text(o.Content), Available: !o.used})
	}
	return v
}
