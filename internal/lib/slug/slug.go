// Package slug maps human titles to url path segments and back.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/GintGld/showreel/internal/models"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make derives a slug from a title.
//
// Accents are folded ("é" -> "e"), everything is lowercased,
// runes other than ASCII letters, digits, underscores,
// whitespace and hyphens are dropped, whitespace runs become
// a single hyphen, hyphen runs collapse, and hyphens are
// trimmed from both ends.
func Make(title string) string {
	folded, _, err := transform.String(foldTransformer, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	b.Grow(len(folded))

	// pending separator is written only
	// before the next kept character,
	// that trims both ends for free.
	sep := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case isWord(r):
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			sep = true
		}
	}

	return b.String()
}

func isWord(r rune) bool {
	return r == '_' ||
		('a' <= r && r <= 'z') ||
		('0' <= r && r <= '9')
}

// Resolve returns the first video whose title
// slugs to s. Order of videos decides ambiguity.
func Resolve(s string, videos []models.Video) (models.Video, bool) {
	for _, v := range videos {
		if Make(v.Title) == s {
			return v, true
		}
	}
	return models.Video{}, false
}

// Collisions returns slugs shared by more than one
// video together with the ids of those videos.
func Collisions(videos []models.Video) map[string][]string {
	seen := make(map[string][]string, len(videos))
	for _, v := range videos {
		s := Make(v.Title)
		seen[s] = append(seen[s], v.ID)
	}

	out := make(map[string][]string)
	for s, ids := range seen {
		if len(ids) > 1 {
			out[s] = ids
		}
	}
	return out
}

// Titleize turns a slug back into a display title:
// hyphens become spaces and every word is capitalized.
func Titleize(s string) string {
	words := strings.Split(s, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
