package catalog

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/GintGld/showreel/internal/models"
)

// Folding mirrors fuzzy's normalized fold matching,
// which the package does not export.
var (
	normalizeTransformer transform.Transformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	transformer                                = transform.Chain(normalizeTransformer, unicodeFoldTransformer{})
)

type videoRank struct {
	video models.Video
	rank  int
}

// search keeps videos whose title, client or description
// fuzzy-match the query. Closest titles go first,
// ties keep the catalog order.
func search(videos []models.Video, query string) []models.Video {
	query = strings.TrimSpace(query)
	if query == "" {
		return videos
	}

	q := stringTransform(query)
	ranked := make([]videoRank, 0, len(videos))

	for _, v := range videos {
		title, client := stringTransform(v.Title), stringTransform(v.Client)

		if !fuzzy.Match(q, title) &&
			!fuzzy.Match(q, client) &&
			!fuzzy.Match(q, stringTransform(v.Description)) {
			continue
		}

		ranked = append(ranked, videoRank{
			video: v,
			rank: min(
				fuzzy.LevenshteinDistance(q, title),
				fuzzy.LevenshteinDistance(q, client),
			),
		})
	}

	slices.SortStableFunc(ranked, func(a, b videoRank) int {
		return a.rank - b.rank
	})

	out := make([]models.Video, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.video)
	}
	return out
}

func stringTransform(s string) string {
	transformed, _, err := transform.String(transformer, s)
	if err != nil {
		return s
	}
	return transformed
}

type unicodeFoldTransformer struct{ transform.NopResetter }

func (unicodeFoldTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for _, r := range string(src) {
		size := utf8.RuneLen(r)
		if r == utf8.RuneError {
			// invalid byte, skipped one at a time
			size = 1
		}

		r = unicode.ToLower(r)
		if utf8.RuneLen(r) > len(dst[nDst:]) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += size
	}
	return nDst, nSrc, nil
}
