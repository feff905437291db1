// internal/content/decode.go
//
// Content Schema Adapter.
// Responsibilities:
//   - Decode: lenient runtime path. Malformed documents degrade to an empty,
//     normalized content value plus an error the host may log.
//   - Validate: strict authoring path. JSON syntax, field types, then the
//     per-type structural rules (the same rules every runtime type owns).
//
// Both paths share one Content value per activity type, so the editor and
// the engines cannot drift apart.

package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownType is returned for discriminators outside the enumerated set.
var ErrUnknownType = errors.New("unknown activity type")

// Content is one decoded activity document.
type Content interface {
	Kind() Type
	Head() Header
	// Validate applies the structural rules for this activity type.
	Validate() error
	normalize()
}

var factories = map[Type]func() Content{
	Flashcard:      func() Content { return &FlashcardDoc{} },
	Matching:       func() Content { return &MatchingDoc{} },
	FillBlanks:     func() Content { return &FillBlanksDoc{} },
	MCQ:            func() Content { return &MCQDoc{} },
	TrueFalse:      func() Content { return &TrueFalseDoc{} },
	Song:           func() Content { return &SongDoc{} },
	Story:          func() Content { return &StoryDoc{} },
	Pronunciation:  func() Content { return &PronunciationDoc{} },
	Scramble:       func() Content { return &ScrambleDoc{} },
	TripleBlast:    func() Content { return &TripleBlastDoc{} },
	BubbleBlast:    func() Content { return &BubbleBlastDoc{} },
	MemoryPair:     func() Content { return &MemoryPairDoc{} },
	GroupSorter:    func() Content { return &GroupSorterDoc{} },
	Conversation:   func() Content { return &ConversationDoc{} },
	Video:          func() Content { return &VideoDoc{} },
	LetterTracking: func() Content { return &LetterTrackingDoc{} },
}

// Empty returns a normalized, inert document of type t.
func Empty(t Type) (Content, error) {
	f, ok := factories[t]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	c := f()
	c.normalize()
	return c, nil
}

// Decode parses raw into the typed document for t. On malformed input it
// still returns a usable (empty) document alongside the error.
func Decode(t Type, raw []byte) (Content, error) {
	f, ok := factories[t]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		c, _ := Empty(t)
		return c, fmt.Errorf("decode %s: empty document", t)
	}
	c := f()
	if err := json.Unmarshal(raw, c); err != nil {
		empty, _ := Empty(t)
		return empty, fmt.Errorf("decode %s: %w", t, err)
	}
	c.normalize()
	return c, nil
}

// Validate runs the strict authoring checks for t against raw JSON.
func Validate(t Type, raw []byte) error {
	f, ok := factories[t]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	c := f()
	if err := json.Unmarshal(raw, c); err != nil {
		return decodeError(err)
	}
	return c.Validate()
}

// decodeError maps encoding/json failures onto ValidationError.
func decodeError(err error) error {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return &ValidationError{Message: fmt.Sprintf("invalid JSON at offset %d: %v", syn.Offset, syn)}
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		field := ute.Field
		if field == "" {
			field = "(root)"
		}
		return &ValidationError{Field: field, Message: "expected " + ute.Type.String() + ", got " + ute.Value}
	}
	return &ValidationError{Message: err.Error()}
}
