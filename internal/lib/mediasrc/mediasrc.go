// Package mediasrc classifies media urls into directly
// playable assets and third-party player embeds.
package mediasrc

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var ErrEmptyURL = errors.New("empty url")

// Source is either Direct or Embedded.
type Source interface {
	// Ref returns the url the source was parsed from.
	Ref() string

	source()
}

// Direct is a file the client can load and play itself.
type Direct struct {
	URL string
	// Manifest reports a DASH manifest (.mpd)
	// instead of a single file.
	Manifest bool
}

// Embedded is a third-party player page
// that can not be prefetched.
type Embedded struct {
	Provider Provider
	EmbedID  string
	URL      string
}

func (d Direct) Ref() string   { return d.URL }
func (e Embedded) Ref() string { return e.URL }

func (Direct) source()   {}
func (Embedded) source() {}

type Provider string

const (
	YouTube Provider = "youtube"
	Vimeo   Provider = "vimeo"
)

var (
	youtubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`)
	vimeoID   = regexp.MustCompile(`^[0-9]+$`)
)

// Parse classifies raw url.
func Parse(raw string) (Source, error) {
	const op = "mediasrc.Parse"

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })

	switch host {
	case "youtube.com", "m.youtube.com", "youtube-nocookie.com":
		if id := u.Query().Get("v"); youtubeID.MatchString(id) {
			return Embedded{Provider: YouTube, EmbedID: id, URL: raw}, nil
		}
		if len(segments) == 2 && (segments[0] == "embed" || segments[0] == "shorts") && youtubeID.MatchString(segments[1]) {
			return Embedded{Provider: YouTube, EmbedID: segments[1], URL: raw}, nil
		}
	case "youtu.be":
		if len(segments) == 1 && youtubeID.MatchString(segments[0]) {
			return Embedded{Provider: YouTube, EmbedID: segments[0], URL: raw}, nil
		}
	case "vimeo.com":
		if len(segments) >= 1 && vimeoID.MatchString(segments[0]) {
			return Embedded{Provider: Vimeo, EmbedID: segments[0], URL: raw}, nil
		}
	case "player.vimeo.com":
		// player.vimeo.com/external/<id>.hd.mp4 is a plain file
		if len(segments) == 2 && segments[0] == "video" && vimeoID.MatchString(segments[1]) {
			return Embedded{Provider: Vimeo, EmbedID: segments[1], URL: raw}, nil
		}
	}

	return Direct{
		URL:      raw,
		Manifest: strings.EqualFold(path.Ext(u.Path), ".mpd"),
	}, nil
}

// PlayerURL returns the url of the provider's player page.
func (e Embedded) PlayerURL() string {
	switch e.Provider {
	case YouTube:
		return "https://www.youtube.com/embed/" + e.EmbedID
	case Vimeo:
		return "https://player.vimeo.com/video/" + e.EmbedID
	}
	return e.URL
}

type Quality string

const (
	Low    Quality = "low"
	Medium Quality = "medium"
	High   Quality = "high"
)

// MobileBreakpoint is the viewport width (logical pixels)
// below which clients get low quality video.
const MobileBreakpoint = 768

// QualityForWidth picks quality for viewport width.
// Unknown width (0) is treated as desktop.
func QualityForWidth(width int) Quality {
	if width > 0 && width < MobileBreakpoint {
		return Low
	}
	return Medium
}

// Height returns the vertical resolution for the quality.
func (q Quality) Height() int {
	switch q {
	case Low:
		return 360
	case High:
		return 1080
	}
	return 720
}

func (q Quality) label() string {
	return fmt.Sprintf("%dp", q.Height())
}

// Optimize returns the url the client should load for
// the given quality. Only vimeo-hosted media understands
// the quality fragment, other urls are returned as is.
func Optimize(src Source, q Quality) string {
	ref := src.Ref()
	if e, ok := src.(Embedded); ok {
		ref = e.PlayerURL()
	}

	if !strings.Contains(ref, "vimeo.com") {
		return ref
	}

	if i := strings.IndexByte(ref, '#'); i >= 0 {
		ref = ref[:i]
	}
	return ref + "#quality=" + q.label()
}
