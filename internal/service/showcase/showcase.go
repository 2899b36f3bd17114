// Package showcase runs the public presentations: the showreel,
// the hero slideshow and the video grid. Each owns its own mirror
// of the collection it shows and a preload controller over it.
package showcase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/GintGld/showreel/internal/lib/logger/sl"
	"github.com/GintGld/showreel/internal/lib/mediasrc"
	"github.com/GintGld/showreel/internal/lib/slug"
	"github.com/GintGld/showreel/internal/lib/utils/pointers"
	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service"
	"github.com/GintGld/showreel/internal/service/mirror"
	"github.com/GintGld/showreel/internal/service/preload"
)

type Storage interface {
	AllVideos(ctx context.Context) ([]models.Video, error)
	AllHeroImages(ctx context.Context) ([]models.HeroImage, error)
}

type Config struct {
	ShowreelInterval time.Duration
	HeroInterval     time.Duration
	ViewportMargin   int
	ListTimeout      time.Duration
	// Quality the server probes primary assets with.
	Quality mediasrc.Quality
}

type Showcase struct {
	log      *slog.Logger
	reel     *show[models.Video]
	hero     *show[models.HeroImage]
	grid     *show[models.Video]
	viewport *preload.ViewportTrigger
}

func New(
	log *slog.Logger,
	hub mirror.Subscriber,
	storage Storage,
	loader preload.Loader,
	cfg Config,
) *Showcase {
	viewport := preload.NewViewportTrigger(cfg.ViewportMargin)

	return &Showcase{
		log: log,
		reel: newShow(
			log.With(slog.String("show", "showreel")),
			mirror.New(log, hub, models.CollectionVideos, storage.AllVideos, cfg.ListTimeout),
			preload.New(log, loader, cfg.Quality, preload.Sequence),
			preload.TimerTrigger{Interval: cfg.ShowreelInterval},
			featured,
			func(v models.Video) preload.Item { return videoItem(log, v.ID, v.ThumbnailURL, v.VideoURL) },
		),
		hero: newShow(
			log.With(slog.String("show", "hero")),
			mirror.New(log, hub, models.CollectionHeroImages, storage.AllHeroImages, cfg.ListTimeout),
			preload.New(log, loader, cfg.Quality, preload.Sequence).WithAutoPlay(),
			preload.TimerTrigger{Interval: cfg.HeroInterval},
			nil,
			func(h models.HeroImage) preload.Item { return preload.Item{ID: h.ID, Placeholder: h.ImageURL} },
		),
		grid: newShow(
			log.With(slog.String("show", "grid")),
			mirror.New(log, hub, models.CollectionVideos, storage.AllVideos, cfg.ListTimeout),
			preload.New(log, loader, cfg.Quality, preload.Independent),
			viewport,
			nil,
			func(v models.Video) preload.Item {
				primary := v.VideoURL
				if preview := pointers.Value(v.PreviewURL); preview != "" {
					primary = preview
				}
				return videoItem(log, v.ID, v.ThumbnailURL, primary)
			},
		),
		viewport: viewport,
	}
}

// featured picks featured videos,
// all of them when none is featured.
func featured(videos []models.Video) []models.Video {
	out := make([]models.Video, 0, len(videos))
	for _, v := range videos {
		if v.Featured {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return videos
	}
	return out
}

func videoItem(log *slog.Logger, id, placeholder, primary string) preload.Item {
	src, err := mediasrc.Parse(primary)
	if err != nil {
		log.Warn("unparsable video url",
			slog.String("id", id),
			sl.Err(err),
		)
		// unreachable, stays on placeholder
		src = mediasrc.Direct{URL: primary}
	}

	return preload.Item{ID: id, Placeholder: placeholder, Primary: src}
}

// Run drives all presentations until ctx is done.
func (s *Showcase) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, run := range []func(context.Context){s.reel.run, s.hero.run, s.grid.run} {
		wg.Add(1)
		go func(run func(context.Context)) {
			defer wg.Done()
			run(ctx)
		}(run)
	}
	wg.Wait()
}

// Ready is closed once every presentation
// had its initial load.
func (s *Showcase) Ready() <-chan struct{} {
	ready := make(chan struct{})
	go func() {
		<-s.reel.mirror.Ready()
		<-s.hero.mirror.Ready()
		<-s.grid.mirror.Ready()
		close(ready)
	}()
	return ready
}

// Wait blocks until in-flight loads finish.
func (s *Showcase) Wait() {
	s.reel.ctrl.Wait()
	s.hero.ctrl.Wait()
	s.grid.ctrl.Wait()
}

type VideoEntry struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Client    string            `json:"client"`
	Slug      string            `json:"slug"`
	Thumbnail string            `json:"thumbnailUrl"`
	Video     string            `json:"videoUrl"`
	Preview   *string           `json:"previewUrl,omitempty"`
	Embedded  bool              `json:"embedded"`
	Provider  mediasrc.Provider `json:"provider,omitempty"`
	State     preload.ItemState `json:"state"`
}

type VideoView struct {
	Cycle   uint64         `json:"cycle"`
	Current int            `json:"current"`
	Items   []VideoEntry   `json:"items"`
	Notice  *models.Notice `json:"notice,omitempty"`
}

type HeroEntry struct {
	models.HeroImage
	State preload.ItemState `json:"state"`
}

type HeroView struct {
	Cycle   uint64         `json:"cycle"`
	Current int            `json:"current"`
	Items   []HeroEntry    `json:"items"`
	Notice  *models.Notice `json:"notice,omitempty"`
}

// Showreel returns the showreel for a viewport of width
// logical pixels (0 if unknown).
func (s *Showcase) Showreel(width int) VideoView {
	return videoView(s.reel, width)
}

// Grid returns the video grid for a viewport of width.
func (s *Showcase) Grid(width int) VideoView {
	return videoView(s.grid, width)
}

func videoView(sh *show[models.Video], width int) VideoView {
	videos, state, notice := sh.view()

	mobile := width > 0 && width < mediasrc.MobileBreakpoint
	quality := mediasrc.QualityForWidth(width)

	items := make([]VideoEntry, 0, len(videos))
	for i, v := range videos {
		thumb, video := v.Assets(mobile)

		entry := VideoEntry{
			ID:        v.ID,
			Title:     v.Title,
			Client:    v.Client,
			Slug:      slug.Make(v.Title),
			Thumbnail: thumb,
			Video:     video,
			Preview:   v.PreviewURL,
		}
		if src, err := mediasrc.Parse(video); err == nil {
			entry.Video = mediasrc.Optimize(src, quality)
			if e, ok := src.(mediasrc.Embedded); ok {
				entry.Embedded = true
				entry.Provider = e.Provider
			}
		}
		if i < len(state.Items) {
			entry.State = state.Items[i]
			// probe of a desktop asset says nothing about the mobile one
			if entry.State.Probe != nil && entry.State.Source != video && entry.State.Source != pointers.Value(v.PreviewURL) {
				entry.State.Probe = nil
			}
		}

		items = append(items, entry)
	}

	return VideoView{
		Cycle:   state.Cycle,
		Current: state.Current,
		Items:   items,
		Notice:  notice,
	}
}

func (s *Showcase) Hero() HeroView {
	images, state, notice := s.hero.view()

	items := make([]HeroEntry, 0, len(images))
	for i, image := range images {
		entry := HeroEntry{HeroImage: image}
		if i < len(state.Items) {
			entry.State = state.Items[i]
		}
		items = append(items, entry)
	}

	return HeroView{
		Cycle:   state.Cycle,
		Current: state.Current,
		Items:   items,
		Notice:  notice,
	}
}

// MountShowreel reports that the showreel element
// of video id is on screen.
func (s *Showcase) MountShowreel(id string) error {
	const op = "Showcase.MountShowreel"

	i, ok := s.reel.ctrl.Index(id)
	if !ok {
		return fmt.Errorf("%s: %w", op, service.ErrNotFound)
	}
	s.reel.ctrl.Mounted(i)

	return nil
}

// ReportViewport hands grid geometry to the viewport trigger.
func (s *Showcase) ReportViewport(v preload.Viewport) {
	s.viewport.Report(v)
}
