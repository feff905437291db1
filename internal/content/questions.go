// internal/content/questions.go
//
// Question-based documents: fill blanks, MCQ, true/false, scramble and
// pronunciation.

package content

import (
	"strconv"
	"strings"

	"github.com/robalobadob/lingoplay/internal/i18n"
)

// --------------------------------------------------------------- FillBlanks

// Segment kinds in a fill-in-the-blanks sentence.
const (
	SegmentText  = "TEXT"
	SegmentBlank = "BLANK"
)

// Segment is one run of a sentence. For a BLANK, Content is the expected answer.
type Segment struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Content i18n.Text `json:"content"`
}

// IsBlank reports whether the segment is fillable.
func (s Segment) IsBlank() bool { return s.Type == SegmentBlank }

// FillBlanksDoc is a sentence with blanks and an option pool.
type FillBlanksDoc struct {
	Header
	Segments []Segment `json:"segments"`
	Options  []Item    `json:"options"`
}

func (*FillBlanksDoc) Kind() Type { return FillBlanks }

func (d *FillBlanksDoc) normalize() {
	segs := make([]Segment, 0, len(d.Segments))
	for i, s := range d.Segments {
		s.Type = strings.ToUpper(strings.TrimSpace(s.Type))
		if s.Type != SegmentBlank {
			s.Type = SegmentText
		}
		if s.ID == "" {
			s.ID = "s" + strconv.Itoa(i)
		}
		segs = append(segs, s)
	}
	d.Segments = dedupe(segs, func(s Segment) string { return s.ID })
	d.Options = dedupe(d.Options, itemID)
}

// Blanks returns only the fillable segments, in sentence order.
func (d *FillBlanksDoc) Blanks() []Segment {
	var out []Segment
	for _, s := range d.Segments {
		if s.IsBlank() {
			out = append(out, s)
		}
	}
	return out
}

func (d *FillBlanksDoc) Validate() error {
	if err := d.validate(); err != nil {
		return err
	}
	blanks := 0
	for i, s := range d.Segments {
		t := strings.ToUpper(strings.TrimSpace(s.Type))
		if t != SegmentText && t != SegmentBlank {
			return invalid(indexed("segments", i)+".type", "must be TEXT or BLANK")
		}
		if s.Content.Empty() {
			return invalid(indexed("segments", i)+".content", "at least one language is required")
		}
		if t == SegmentBlank {
			blanks++
		}
	}
	if blanks == 0 {
		return invalid("segments", "at least one BLANK segment is required")
	}
	if err := checkIDs("options", d.Options, itemID); err != nil {
		return err
	}
	if len(d.Options) < blanks {
		return invalid("options", "need at least %d options for %d blanks", blanks, blanks)
	}
	for i, o := range d.Options {
		if o.Content.Empty() {
			return invalid(indexed("options", i)+".content", "at least one language is required")
		}
	}
	for i, s := range d.Segments {
		if strings.ToUpper(strings.TrimSpace(s.Type)) != SegmentBlank {
			continue
		}
		for _, lang := range i18n.Supported() {
			want := i18n.Resolve(s.Content, lang, "")
			if !optionOffers(d.Options, lang, want) {
				return invalid(indexed("segments", i)+".content", "no option provides %q for %s", want, lang)
			}
		}
	}
	return nil
}

func optionOffers(options []Item, lang i18n.Lang, text string) bool {
	for _, o := range options {
		if i18n.Resolve(o.Content, lang, "") == text {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------- MCQ

// MCQOption carries its own correctness flag.
type MCQOption struct {
	ID        string    `json:"id"`
	Content   i18n.Text `json:"content"`
	IsCorrect bool      `json:"isCorrect"`
}

// MCQQuestion is one step of the linear sequence.
type MCQQuestion struct {
	ID       string      `json:"id"`
	Question i18n.Text   `json:"question"`
	Options  []MCQOption `json:"options"`
}

// MCQDoc is a linear multiple-choice quiz.
type MCQDoc struct {
	Header
	Questions []MCQQuestion `json:"questions"`
}

func (*MCQDoc) Kind() Type { return MCQ }

func (d *MCQDoc) normalize() {
	for i := range d.Questions {
		q := &d.Questions[i]
		if q.ID == "" {
			q.ID = "q" + strconv.Itoa(i)
		}
		for j := range q.Options {
			if q.Options[j].ID == "" {
				q.Options[j].ID = q.ID + "-o" + strconv.Itoa(j)
			}
		}
		q.Options = dedupe(q.Options, func(o MCQOption) string { return o.ID })
	}
	d.Questions = dedupe(d.Questions, func(q MCQQuestion) string { return q.ID })
}

func (d *MCQDoc) Validate() error {
	if err := d.validate(); err != nil {
		return err
	}
	if len(d.Questions) == 0 {
		return invalid("questions", "at least one question is required")
	}
	for i, q := range d.Questions {
		field := indexed("questions", i)
		if q.Question.Empty() {
			return invalid(field+".question", "at least one language is required")
		}
		if len(q.Options) < 2 {
			return invalid(field+".options", "at least two options are required")
		}
		correct := 0
		for j, o := range q.Options {
			if o.Content.Empty() {
				return invalid(indexed(field+".options", j)+".content", "at least one language is required")
			}
			if o.IsCorrect {
				correct++
			}
		}
		if correct == 0 {
			return invalid(field+".options", "one option must be marked isCorrect")
		}
	}
	return nil
}

// ---------------------------------------------------------------- TrueFalse

// TFQuestion is a statement judged true or false.
type TFQuestion struct {
	ID            string    `json:"id"`
	Statement     i18n.Text `json:"statement"`
	CorrectAnswer bool      `json:"correctAnswer"`
}

// TrueFalseDoc is a linear true/false quiz.
type TrueFalseDoc struct {
	Header
	Questions []TFQuestion `json:"questions"`
}

func (*TrueFalseDoc) Kind() Type { return TrueFalse }

func (d *TrueFalseDoc) normalize() {
	for i := range d.Questions {
		if d.Questions[i].ID == "" {
			d.Questions[i].ID = "q" + strconv.Itoa(i)
		}
	}
	d.Questions = dedupe(d.Questions, func(q TFQuestion) string { return q.ID })
}

func (d *TrueFalseDoc) Validate() error {
	if err := d.validate(); err != nil {
		return err
	}
	if len(d.Questions) == 0 {
		return invalid("questions", "at least one question is required")
	}
	for i, q := range d.Questions {
		if q.Statement.Empty() {
			return invalid(indexed("questions", i)+".statement", "at least one language is required")
		}
	}
	return nil
}

// ----------------------------------------------------------------- Scramble

// ScrambleDoc holds one answer word per language.
type ScrambleDoc struct {
	Header
	Answer i18n.Text `json:"answer"`
	Hint   i18n.Text `json:"hint"`
	Image  i18n.Text `json:"image"`
}

func (*ScrambleDoc) Kind() Type { return Scramble }
func (d *ScrambleDoc) normalize() {}

func (d *ScrambleDoc) Validate() error {
	if err := d.validate(); err != nil {
		return err
	}
	if d.Answer.Empty() {
		return invalid("answer", "at least one language is required")
	}
	return nil
}

// ------------------------------------------------------------ Pronunciation

// PronunciationDoc is a word the player reads aloud for grading.
type PronunciationDoc struct {
	Header
	Word  i18n.Text `json:"word"`
	Audio i18n.Text `json:"audio"`
}

func (*PronunciationDoc) Kind() Type { return Pronunciation }
func (d *PronunciationDoc) normalize() {}

func (d *PronunciationDoc) Validate() error {
	if err := d.validate(); err != nil {
		return err
	}
	if d.Word.Empty() {
		return invalid("word", "at least one language is required")
	}
	return nil
}
