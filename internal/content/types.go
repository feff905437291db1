// internal/content/types.go
//
// Activity-type discriminator and the primitives shared by every content
// document (header, identified items, answer pairs).

package content

import (
	"strconv"
	"strings"

	"github.com/robalobadob/lingoplay/internal/i18n"
)

// Type is the integer activity-type discriminator stored with every exercise.
type Type int

const (
	Flashcard Type = iota + 1
	Matching
	FillBlanks
	MCQ
	TrueFalse
	Song
	Story
	Pronunciation
	Scramble
	TripleBlast
	BubbleBlast
	MemoryPair
	GroupSorter
	Conversation
	Video
	LetterTracking
)

var typeNames = map[Type]string{
	Flashcard:      "flashcard",
	Matching:       "matching",
	FillBlanks:     "fill_blanks",
	MCQ:            "mcq",
	TrueFalse:      "true_false",
	Song:           "song",
	Story:          "story",
	Pronunciation:  "pronunciation",
	Scramble:       "scramble",
	TripleBlast:    "triple_blast",
	BubbleBlast:    "bubble_blast",
	MemoryPair:     "memory_pair",
	GroupSorter:    "group_sorter",
	Conversation:   "conversation",
	Video:          "video",
	LetterTracking: "letter_tracking",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "type_" + strconv.Itoa(int(t))
}

// Valid reports whether t is a known activity type.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// Types lists every known activity type in discriminator order.
func Types() []Type {
	out := make([]Type, 0, len(typeNames))
	for t := Flashcard; t <= LetterTracking; t++ {
		out = append(out, t)
	}
	return out
}

// ParseType accepts either the integer discriminator or the type name.
func ParseType(s string) (Type, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		t := Type(n)
		return t, t.Valid()
	}
	for t, name := range typeNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

// Header is carried by every document.
type Header struct {
	Title       i18n.Text `json:"title"`
	Instruction i18n.Text `json:"instruction"`
}

// Head returns the document header.
func (h Header) Head() Header { return h }

func (h Header) validate() error {
	if h.Title.Empty() {
		return invalid("title", "at least one language is required")
	}
	if h.Instruction.Empty() {
		return invalid("instruction", "at least one language is required")
	}
	return nil
}

// Item is an identified piece of multilingual content: a card, tile, bubble or option.
type Item struct {
	ID      string    `json:"id"`
	Content i18n.Text `json:"content"`
}

func itemID(i Item) string { return i.ID }

// CardPair is one entry of a Memory-Pair answer list. Order is not significant.
type CardPair struct {
	A string `json:"aId"`
	B string `json:"bId"`
}

// ShotPair is one entry of a Bubble-Blast answer list.
type ShotPair struct {
	ShooterID string `json:"shooterId"`
	TargetID  string `json:"targetId"`
}

// dedupe drops entries with blank or repeated ids, keeping first occurrences.
func dedupe[T any](items []T, id func(T) string) []T {
	out := make([]T, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		k := strings.TrimSpace(id(it))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

// idSet indexes ids for reference checks.
func idSet[T any](items []T, id func(T) string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, it := range items {
		m[id(it)] = struct{}{}
	}
	return m
}

// checkIDs rejects blank and duplicate ids for the validator.
func checkIDs[T any](field string, items []T, id func(T) string) error {
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		k := strings.TrimSpace(id(it))
		if k == "" {
			return invalid(indexed(field, i)+".id", "is required")
		}
		if _, dup := seen[k]; dup {
			return invalid(indexed(field, i)+".id", "duplicate id %q", k)
		}
		seen[k] = struct{}{}
	}
	return nil
}

func indexed(field string, i int) string {
	return field + "[" + strconv.Itoa(i) + "]"
}
