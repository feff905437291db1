// internal/game/player.go
//
// Engine for time-synchronized activities: song, story, conversation, video
// and letter tracing. Wraps media.Player and resolves the cue track for the
// active language.

package game

import (
	"context"

	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/media"
)

// PlayerView is the snapshot for song, story, conversation, video and
// letter-tracing activities.
type PlayerView struct {
	HeaderView
	media.State
	Letter   string    `json:"letter,omitempty"`
	Segments []CueView `json:"segments"`
}

// CueView is one segment resolved for the active language, with the
// timestamp from that language's own track.
type CueView struct {
	Index     int     `json:"index"`
	Text      string  `json:"text"`
	Speaker   string  `json:"speaker,omitempty"`
	Image     string  `json:"image,omitempty"`
	Timestamp float64 `json:"timestamp"`
	Active    bool    `json:"active"`
}

type playerEngine struct {
	machine
	doc    content.Timed
	player *media.Player
}

func newPlayer(doc content.Timed, opts Options) *playerEngine {
	e := &playerEngine{doc: doc, player: media.NewPlayer()}
	e.init(doc.Kind(), opts)
	e.build()
	return e
}

// build re-anchors the cursor to the active language's track at index 0
// and reloads that language's source.
func (e *playerEngine) build() {
	e.restart()
	cues := e.doc.Cues()
	times := make([]float64, len(cues))
	for i, c := range cues {
		times[i] = c.Timestamp.At(e.lang)
	}
	e.player.Load(times, e.url(e.doc.Source()))
	e.max = 0
}

func (e *playerEngine) Apply(_ context.Context, a Action) error {
	return e.run(func() error {
		switch a.Kind {
		case KindPlay:
			if err := e.player.Play(); err != nil {
				e.message = "This activity has no media to play"
				return err
			}
			e.message = ""
			return nil
		case KindPause:
			e.player.Pause()
			return nil
		case KindTick:
			e.player.Tick(a.Time)
			return nil
		case KindSeek:
			e.player.Seek(a.Time)
			return nil
		case KindDuration:
			e.player.SetDuration(a.Time)
			return nil
		case KindEnd:
			e.player.End()
			e.finish(true)
			return nil
		case KindError:
			e.player.Fail(a.Message)
			e.message = e.player.State().Error
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

func (e *playerEngine) Snapshot() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.player.State()
	v := PlayerView{HeaderView: e.header(e.doc.Head()), State: st, Segments: []CueView{}}
	if lt, ok := e.doc.(*content.LetterTrackingDoc); ok {
		v.Letter = e.text(lt.Letter)
	}
	for i, c := range e.doc.Cues() {
		v.Segments = append(v.Segments, CueView{
			Index:     i,
			Text:      e.text(c.Content),
			Speaker:   e.text(c.Speaker),
			Image:     e.url(c.Image),
			Timestamp: c.Timestamp.At(e.lang),
			Active:    i == st.Index,
		})
	}
	return v
}
