package preload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"github.com/zencoder/go-dash/v3/mpd"

	"github.com/GintGld/showreel/internal/lib/mediasrc"
)

var (
	ErrUnreachable = errors.New("asset unreachable")
	ErrNotVideo    = errors.New("asset is not a video")
	ErrNoVideo     = errors.New("manifest has no video representation")
)

// HTTPLoader fetches assets with the fiber client.
// Successful probes are cached by url.
type HTTPLoader struct {
	log        *slog.Logger
	timeout    time.Duration
	sniffBytes int
	probes     *cache.Cache
}

func NewHTTPLoader(
	log *slog.Logger,
	timeout time.Duration,
	sniffBytes int,
	cacheTTL time.Duration,
) *HTTPLoader {
	return &HTTPLoader{
		log:        log,
		timeout:    timeout,
		sniffBytes: sniffBytes,
		probes:     cache.New(cacheTTL, 2*cacheTTL),
	}
}

func cacheKey(kind string, parts ...string) string {
	return kind + ":" + strconv.FormatUint(xxhash.Sum64String(strings.Join(parts, "\x00")), 16)
}

// get performs GET request, range limits
// the body when positive.
func (l *HTTPLoader) get(ctx context.Context, url string, limit int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := fiber.Get(url).
		Timeout(l.timeout).
		MaxRedirectsCount(5)
	if limit > 0 {
		a.Set(fiber.HeaderRange, "bytes=0-"+strconv.Itoa(limit-1))
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, errors.Join(errs...))
	}
	if code != fiber.StatusOK && code != fiber.StatusPartialContent {
		return nil, fmt.Errorf("%w: status %d", ErrUnreachable, code)
	}

	return body, nil
}

func (l *HTTPLoader) Placeholder(ctx context.Context, url string) error {
	const op = "HTTPLoader.Placeholder"

	key := cacheKey("placeholder", url)
	if _, ok := l.probes.Get(key); ok {
		return nil
	}

	if _, err := l.get(ctx, url, 0); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	l.probes.SetDefault(key, struct{}{})

	return nil
}

// Primary probes directly playable asset: files are range-fetched
// and sniffed, DASH manifests are parsed and the representation
// closest to the quality is picked.
func (l *HTTPLoader) Primary(ctx context.Context, src mediasrc.Direct, q mediasrc.Quality) (Probe, error) {
	const op = "HTTPLoader.Primary"

	log := l.log.With(
		slog.String("op", op),
		slog.String("url", src.URL),
	)

	key := cacheKey("primary", src.URL, string(q))
	if p, ok := l.probes.Get(key); ok {
		return p.(Probe), nil
	}

	var (
		probe Probe
		err   error
	)
	if src.Manifest {
		probe, err = l.probeManifest(ctx, src.URL, q)
	} else {
		probe, err = l.probeFile(ctx, src.URL)
	}
	if err != nil {
		return Probe{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("asset probed",
		slog.String("mime", probe.MIME),
		slog.String("representation", probe.Representation),
	)
	l.probes.SetDefault(key, probe)

	return probe, nil
}

func (l *HTTPLoader) probeFile(ctx context.Context, url string) (Probe, error) {
	body, err := l.get(ctx, url, l.sniffBytes)
	if err != nil {
		return Probe{}, err
	}

	mt := mimetype.Detect(body)
	if !strings.HasPrefix(mt.String(), "video/") {
		return Probe{}, fmt.Errorf("%w: %s", ErrNotVideo, mt.String())
	}

	return Probe{MIME: mt.String()}, nil
}

func (l *HTTPLoader) probeManifest(ctx context.Context, url string, q mediasrc.Quality) (Probe, error) {
	body, err := l.get(ctx, url, 0)
	if err != nil {
		return Probe{}, err
	}

	manifest, err := mpd.ReadFromString(string(body))
	if err != nil {
		return Probe{}, err
	}

	return pickRepresentation(manifest, q)
}

// pickRepresentation returns the video representation
// with height closest to the quality.
func pickRepresentation(manifest *mpd.MPD, q mediasrc.Quality) (Probe, error) {
	best, bestDiff := Probe{}, math.MaxInt
	for _, period := range manifest.Periods {
		for _, set := range period.AdaptationSets {
			for _, rep := range set.Representations {
				if rep.Height == nil {
					continue
				}

				height := int(*rep.Height)
				diff := height - q.Height()
				if diff < 0 {
					diff = -diff
				}
				if diff >= bestDiff {
					continue
				}

				best, bestDiff = Probe{MIME: mpd.DASH_MIME_TYPE_VIDEO_MP4, Height: height}, diff
				if rep.ID != nil {
					best.Representation = *rep.ID
				}
			}
		}
	}

	if bestDiff == math.MaxInt {
		return Probe{}, ErrNoVideo
	}
	return best, nil
}
