// internal/i18n/text.go
//
// Multilingual text resolution.
// Responsibilities:
//   - Lang: the fixed language-code set (ta, en, si).
//   - Text: a language-keyed string map, the shape of every display field.
//   - Resolve: fallback lookup requested → en → ta → si → caller default.
//   - ParseLang / Match: normalize free-form language tags with x/text.
//
// All functions are pure and safe for concurrent use.

package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Lang is a supported content language code.
type Lang string

const (
	Tamil   Lang = "ta"
	English Lang = "en"
	Sinhala Lang = "si"
)

// DefaultLang is used when a request names no usable language.
const DefaultLang = Tamil

// fallbackOrder is consulted after the requested language misses.
var fallbackOrder = []Lang{English, Tamil, Sinhala}

// Text maps a language code to a display string (or a media URL).
// A missing key is legal and resolved through fallback.
type Text map[Lang]string

// Resolve returns t[lang], else the first non-empty value in the
// fallback order, else def. A nil map yields def.
func Resolve(t Text, lang Lang, def string) string {
	if t == nil {
		return def
	}
	if v := t[lang]; v != "" {
		return v
	}
	for _, l := range fallbackOrder {
		if v := t[l]; v != "" {
			return v
		}
	}
	return def
}

// Get is shorthand for Resolve with an empty default.
func (t Text) Get(lang Lang) string { return Resolve(t, lang, "") }

// Empty reports whether no language carries a non-blank value.
func (t Text) Empty() bool {
	for _, v := range t {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Has reports whether lang itself (no fallback) carries a value.
func (t Text) Has(lang Lang) bool { return t[lang] != "" }

var supportedTags = []language.Tag{
	language.Tamil,
	language.English,
	language.Sinhala,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Supported lists the content languages in display order.
func Supported() []Lang { return []Lang{Tamil, English, Sinhala} }

// ParseLang normalizes a tag such as "ta-IN" or "EN_us" to a supported Lang.
func ParseLang(value string) (Lang, bool) {
	value = strings.ReplaceAll(strings.TrimSpace(value), "_", "-")
	if value == "" {
		return "", false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	switch l := Lang(base.String()); l {
	case Tamil, English, Sinhala:
		return l, true
	}
	return "", false
}

// LangOr parses value, falling back to def when it is not supported.
func LangOr(value string, def Lang) Lang {
	if l, ok := ParseLang(value); ok {
		return l
	}
	return def
}

// Match picks the best supported language for an Accept-Language header.
func Match(acceptLanguage string) Lang {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	matched, _, conf := tagMatcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	return LangOr(matched.String(), DefaultLang)
}
