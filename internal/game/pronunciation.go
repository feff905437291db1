// internal/game/pronunciation.go
//
// Pronunciation engine.
// Phases: idle → grading → passed | failed | error.
// A grader failure is reported as a retryable error; retries are up to the player.

package game

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/pronounce"
)

// Pronunciation phases.
const (
	PhaseIdle    = "idle"
	PhaseGrading = "grading"
	PhasePassed  = "passed"
	PhaseFailed  = "failed"
	PhaseError   = "error"
)

// PronunciationView is the pronunciation snapshot.
type PronunciationView struct {
	HeaderView
	Word       string  `json:"word"`
	Audio      string  `json:"audio,omitempty"`
	Phase      string  `json:"phase"`
	Attempts   int     `json:"attempts"`
	LastScore  float64 `json:"lastScore"`
	Transcript string  `json:"transcript,omitempty"`
}

type pronunciationEngine struct {
	machine
	doc        *content.PronunciationDoc
	grader     Grader
	pass       float64
	phase      string
	attempts   int
	lastScore  float64
	transcript string
}

func newPronunciation(doc *content.PronunciationDoc, opts Options) *pronunciationEngine {
	e := &pronunciationEngine{doc: doc, grader: opts.Grader, pass: opts.PassScore}
	e.init(content.Pronunciation, opts)
	e.build()
	return e
}

func (e *pronunciationEngine) build() {
	e.restart()
	e.phase = PhaseIdle
	e.attempts = 0
	e.lastScore = 0
	e.transcript = ""
	e.max = 1
}

func (e *pronunciationEngine) Apply(ctx context.Context, a Action) error {
	if a.Kind == KindSubmit {
		return e.submit(ctx, a.Audio)
	}
	return e.run(func() error {
		switch a.Kind {
		case KindError:
			e.phase = PhaseError
			e.message = a.Message
			if e.message == "" {
				e.message = "Could not record audio"
			}
			return nil
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

// submit grades one attempt. The engine lock is released while the grader
// runs; a reset or language switch in the meantime discards the result.
func (e *pronunciationEngine) submit(ctx context.Context, audio []byte) error {
	var (
		req   pronounce.Request
		epoch uint64
	)
	err := e.run(func() error {
		switch {
		case e.done:
			return ErrFinished
		case e.phase == PhaseGrading:
			return ErrLocked
		case len(audio) == 0:
			e.message = "No recording received"
			return ErrInvalidMove
		case e.grader == nil:
			e.phase = PhaseError
			e.message = "Pronunciation checking is unavailable right now"
			return nil
		}
		e.phase = PhaseGrading
		e.attempts++
		e.message = ""
		epoch = e.epoch
		req = pronounce.Request{Text: e.text(e.doc.Word), Lang: e.lang, Audio: audio}
		return nil
	})
	if err != nil || req.Audio == nil {
		return err
	}

	grade, gradeErr := e.grader.Grade(ctx, req)

	return e.run(func() error {
		if e.epoch != epoch {
			return nil
		}
		if gradeErr != nil {
			log.Warn().Err(gradeErr).Str("lang", string(req.Lang)).Msg("pronunciation grading failed")
			e.phase = PhaseError
			e.message = "Could not check your recording. Please try again."
			if errors.Is(gradeErr, context.Canceled) {
				e.phase = PhaseIdle
				e.message = ""
			}
			return nil
		}
		e.lastScore = grade.Score
		e.transcript = grade.Transcript
		if grade.Score >= e.pass {
			e.phase = PhasePassed
			e.score = 1
			e.message = "Great pronunciation!"
			e.finish(true)
			return nil
		}
		e.phase = PhaseFailed
		e.message = "Almost, try again"
		return nil
	})
}

func (e *pronunciationEngine) Snapshot() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return PronunciationView{
		HeaderView: e.header(e.doc.Header),
		Word:       e.text(e.doc.Word),
		Audio:      e.url(e.doc.Audio),
		Phase:      e.phase,
		Attempts:   e.attempts,
		LastScore:  e.lastScore,
		Transcript: e.transcript,
	}
}
