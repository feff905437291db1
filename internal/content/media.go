// internal/content/media.go
//
// Time-synced documents and the Timestamp type, which accepts either one
// number of seconds or one per language.

package content

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/robalobadob/lingoplay/internal/i18n"
)

var floatType = reflect.TypeOf(float64(0))

// Timestamp is a cue time in seconds, either shared by every language
// or given per language track.
type Timestamp struct {
	Single  float64
	PerLang map[i18n.Lang]float64
}

// At returns the cue time on lang's track. Missing languages fall back
// en → ta → si, then to the shared value.
func (t Timestamp) At(lang i18n.Lang) float64 {
	if v, ok := t.PerLang[lang]; ok {
		return v
	}
	for _, l := range []i18n.Lang{i18n.English, i18n.Tamil, i18n.Sinhala} {
		if v, ok := t.PerLang[l]; ok {
			return v
		}
	}
	return t.Single
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		return nil
	case b[0] == '{':
		var m map[i18n.Lang]float64
		if err := json.Unmarshal(b, &m); err != nil {
			return err
		}
		t.PerLang = m
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return &json.UnmarshalTypeError{Value: "string " + strconv.Quote(s), Type: floatType}
		}
		t.Single = f
		return nil
	}
	return json.Unmarshal(b, &t.Single)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.PerLang != nil {
		return json.Marshal(t.PerLang)
	}
	return json.Marshal(t.Single)
}

// Cue is one time-anchored segment: a lyric line, scene, dialogue turn or stroke.
type Cue struct {
	Content   i18n.Text `json:"content"`
	Speaker   i18n.Text `json:"speaker,omitempty"`
	Image     i18n.Text `json:"image,omitempty"`
	Timestamp Timestamp `json:"timestamp"`
}

// Timed is implemented by every document driven by a media time source.
type Timed interface {
	Content
	Cues() []Cue
	Source() i18n.Text
}

func normalizeCues(c []Cue) []Cue {
	if c == nil {
		return []Cue{}
	}
	return c
}

func validateCues(field string, cues []Cue, min int) error {
	if len(cues) < min {
		return invalid(field, "at least %d entries are required", min)
	}
	for i, c := range cues {
		if c.Content.Empty() {
			return invalid(indexed(field, i)+".content", "at least one language is required")
		}
		for lang, v := range c.Timestamp.PerLang {
			if v < 0 {
				return invalid(indexed(field, i)+".timestamp."+string(lang), "must not be negative")
			}
		}
		if c.Timestamp.Single < 0 {
			return invalid(indexed(field, i)+".timestamp", "must not be negative")
		}
	}
	for _, lang := range i18n.Supported() {
		for i := 1; i < len(cues); i++ {
			if cues[i].Timestamp.At(lang) < cues[i-1].Timestamp.At(lang) {
				return invalid(indexed(field, i)+".timestamp", "%s track goes backwards", lang)
			}
		}
	}
	return nil
}

func validateSource(field string, src i18n.Text) error {
	if src.Empty() {
		return invalid(field, "a media URL is required")
	}
	return nil
}

// SongDoc is a lyric sheet synced to an audio (or video) track.
type SongDoc struct {
	Header
	Audio  i18n.Text `json:"audio"`
	Video  i18n.Text `json:"video"`
	Lyrics []Cue     `json:"lyrics"`
}

func (*SongDoc) Kind() Type { return Song }
func (d *SongDoc) normalize() { d.Lyrics = normalizeCues(d.Lyrics) }
func (d *SongDoc) Cues() []Cue { return d.Lyrics }
func (d *SongDoc) Source() i18n.Text {
	if d.Audio.Empty() {
		return d.Video
	}
	return d.Audio
}

func (d *SongDoc) Validate() error {
	if err := d.validate(); err != nil {
		return err
	}
	if err := validateSource("audio", d.Source()); err != nil {
		return err
	}
	return validateCues("lyrics", d.Lyrics, 1)
}

// StoryDoc is a sequence of illustrated scenes narrated by audio.
type StoryDoc struct {
	Header
	Audio  i18n.Text `json:"audio"`
	Scenes []Cue     `json:"scenes"`
}

func (*StoryDoc) Kind() Type { return Story }
func (d *StoryDoc) normalize() { d.Scenes = normalizeCues(d.Scenes) }
func (d *StoryDoc) Cues() []Cue { return d.Scenes }
func (d *StoryDoc) Source() i18n.Text { return d.Audio }

func (d *StoryDoc) Validate() error {
	if err := d.validate(); err != nil {
		return err
	}
	if err := validateSource("audio", d.Audio); err != nil {
		return err
	}
	return validateCues("scenes", d.Scenes, 1)
}

// ConversationDoc is a dialogue between speakers, synced to audio.
type ConversationDoc struct {
	Header
	Audio     i18n.Text `json:"audio"`
	Dialogues []Cue     `json:"dialogues"`
}

func (*ConversationDoc) Kind() Type { return Conversation }
func (d *ConversationDoc) normalize() { d.Dialogues = normalizeCues(d.Dialogues) }
func (d *ConversationDoc) Cues() []Cue { return d.Dialogues }
func (d *ConversationDoc) Source() i18n.Text { return d.Audio }

func (d *ConversationDoc) Validate() error {
	if err := d.validate(); err != nil {
		return err
	}
	if err := validateSource("audio", d.Audio); err != nil {
		return err
	}
	if err := validateCues("dialogues", d.Dialogues, 1); err != nil {
		return err
	}
	for i, c := range d.Dialogues {
		if c.Speaker.Empty() {
			return invalid(indexed("dialogues", i)+".speaker", "at least one language is required")
		}
	}
	return nil
}

// VideoDoc is a plain video with no cue track.
type VideoDoc struct {
	Header
	Video i18n.Text `json:"video"`
}

func (*VideoDoc) Kind() Type { return Video }
func (d *VideoDoc) normalize() {}
func (d *VideoDoc) Cues() []Cue { return nil }
func (d *VideoDoc) Source() i18n.Text { return d.Video }

func (d *VideoDoc) Validate() error {
	if err := d.validate(); err != nil {
		return err
	}
	return validateSource("video", d.Video)
}

// LetterTrackingDoc guides the tracing of one letter stroke by stroke,
// each stroke cued on the narration audio.
type LetterTrackingDoc struct {
	Header
	Letter  i18n.Text `json:"letter"`
	Audio   i18n.Text `json:"audio"`
	Strokes []Cue     `json:"strokes"`
}

func (*LetterTrackingDoc) Kind() Type { return LetterTracking }
func (d *LetterTrackingDoc) normalize() { d.Strokes = normalizeCues(d.Strokes) }
func (d *LetterTrackingDoc) Cues() []Cue { return d.Strokes }
func (d *LetterTrackingDoc) Source() i18n.Text { return d.Audio }

func (d *LetterTrackingDoc) Validate() error {
	if err := d.validate(); err != nil {
		return err
	}
	if d.Letter.Empty() {
		return invalid("letter", "at least one language is required")
	}
	return validateCues("strokes", d.Strokes, 0)
}
