// internal/i18n/media.go
//
// Media URL resolution against MEDIA_BASE_URL.

package i18n

import (
	"net/url"
	"strings"
)

// Resolver resolves media fields (image/audio/video URLs) against a base origin.
type Resolver struct {
	base string
}

// NewResolver builds a Resolver; base is typically the CDN or API origin.
func NewResolver(base string) Resolver {
	return Resolver{base: strings.TrimRight(strings.TrimSpace(base), "/")}
}

// URL applies the base origin to a single path.
// Absolute http(s) URLs pass through; "/x" and "x" are both prefixed.
func (r Resolver) URL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if u, err := url.Parse(path); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return path
	}
	if r.base == "" {
		return path
	}
	return r.base + "/" + strings.TrimLeft(path, "/")
}

// Media resolves a multilingual media field and applies the base origin.
func (r Resolver) Media(t Text, lang Lang) string {
	return r.URL(Resolve(t, lang, ""))
}
