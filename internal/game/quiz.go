// internal/game/quiz.go
//
// MCQ and true/false engine. Both run the same linear question sequence.

package game

import (
	"context"
	"strconv"

	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/i18n"
	"github.com/robalobadob/lingoplay/internal/shuffle"
)

// Option ids for true/false questions.
const (
	OptionTrue  = "true"
	OptionFalse = "false"
)

// QuizView is the MCQ / true-false snapshot. Question is nil once completed.
type QuizView struct {
	HeaderView
	Index    int           `json:"index"`
	Total    int           `json:"total"`
	Question *QuestionView `json:"question,omitempty"`
}

type QuestionView struct {
	ID       string           `json:"id"`
	Prompt   string           `json:"prompt"`
	Options  []QuizOptionView `json:"options"`
	Answered bool             `json:"answered"`
}

type QuizOptionView struct {
	ID      string     `json:"id"`
	Content string     `json:"content"`
	Status  CardStatus `json:"status"`
}

type quizOption struct {
	id      string
	content i18n.Text
	correct bool
}

type quizQuestion struct {
	id      string
	prompt  i18n.Text
	options []quizOption
}

// quizEngine runs a linear question sequence. Both MCQ and true/false
// documents are converted to the same question shape.
type quizEngine struct {
	machine
	head      content.Header
	source    []quizQuestion
	shuffled  bool
	questions []quizQuestion
	index     int
	answers   map[string]string
}

func newMCQ(doc *content.MCQDoc, opts Options) *quizEngine {
	qs := make([]quizQuestion, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		qq := quizQuestion{id: q.ID, prompt: q.Question}
		for _, o := range q.Options {
			qq.options = append(qq.options, quizOption{id: o.ID, content: o.Content, correct: o.IsCorrect})
		}
		qs = append(qs, qq)
	}
	return newQuiz(content.MCQ, doc.Header, qs, true, opts)
}

var (
	trueLabel  = i18n.Text{i18n.English: "True", i18n.Tamil: "சரி", i18n.Sinhala: "සත්‍ය"}
	falseLabel = i18n.Text{i18n.English: "False", i18n.Tamil: "தவறு", i18n.Sinhala: "අසත්‍ය"}
)

func newTrueFalse(doc *content.TrueFalseDoc, opts Options) *quizEngine {
	qs := make([]quizQuestion, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		qs = append(qs, quizQuestion{
			id:     q.ID,
			prompt: q.Statement,
			options: []quizOption{
				{id: OptionTrue, content: trueLabel, correct: q.CorrectAnswer},
				{id: OptionFalse, content: falseLabel, correct: !q.CorrectAnswer},
			},
		})
	}
	return newQuiz(content.TrueFalse, doc.Header, qs, false, opts)
}

func newQuiz(typ content.Type, h content.Header, qs []quizQuestion, shuffled bool, opts Options) *quizEngine {
	e := &quizEngine{head: h, source: qs, shuffled: shuffled}
	e.init(typ, opts)
	e.build()
	return e
}

func (e *quizEngine) build() {
	e.restart()
	e.questions = make([]quizQuestion, len(e.source))
	for i, q := range e.source {
		q.options = append([]quizOption(nil), q.options...)
		if e.shuffled {
			shuffle.Slice(e.rng, q.options)
		}
		e.questions[i] = q
	}
	e.index = 0
	e.answers = make(map[string]string, len(e.questions))
	e.max = len(e.questions)
}

func (e *quizEngine) Apply(_ context.Context, a Action) error {
	return e.run(func() error {
		switch a.Kind {
		case KindAnswer, KindSelect:
			id := a.ID
			if a.Value != nil {
				id = strconv.FormatBool(*a.Value)
			}
			return e.answer(id)
		case KindNext:
			return e.next()
		case KindReset, KindRestart:
			e.build()
			return nil
		case KindLang:
			_, err := e.switchLang(a.Lang)
			return err
		}
		return unknownAction(a)
	})
}

func (e *quizEngine) answer(optionID string) error {
	if e.done {
		return ErrFinished
	}
	if e.index >= len(e.questions) {
		return ErrInvalidMove
	}
	q := e.questions[e.index]
	if _, ok := e.answers[q.id]; ok {
		return ErrAnswered
	}
	for _, o := range q.options {
		if o.id != optionID {
			continue
		}
		e.answers[q.id] = o.id
		if o.correct {
			e.score++
			e.message = "Correct!"
		} else {
			e.message = "Not quite"
		}
		return nil
	}
	return ErrUnknownID
}

func (e *quizEngine) next() error {
	if e.done {
		return ErrFinished
	}
	if e.index < len(e.questions) {
		if _, ok := e.answers[e.questions[e.index].id]; !ok {
			e.message = "Choose an answer first"
			return ErrIncomplete
		}
	}
	e.message = ""
	if e.index+1 < len(e.questions) {
		e.index++
		return nil
	}
	e.index = len(e.questions)
	e.message = "Quiz complete"
	e.finish(len(e.questions) > 0 && e.score == len(e.questions))
	return nil
}

func (e *quizEngine) Snapshot() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := QuizView{HeaderView: e.header(e.head), Index: e.index, Total: len(e.questions)}
	if e.done || e.index >= len(e.questions) {
		return v
	}
	q := e.questions[e.index]
	chosen, answered := e.answers[q.id]
	qv := &QuestionView{ID: q.id, Prompt: e.text(q.prompt), Answered: answered}
	for _, o := range q.options {
		st := StatusDefault
		if answered && o.id == chosen {
			st = StatusIncorrect
			if o.correct {
				st = StatusCorrect
			}
		}
		qv.Options = append(qv.Options, QuizOptionView{ID: o.id, Content: e.text(o.content), Status: st})
	}
	v.Question = qv
	return v
}
