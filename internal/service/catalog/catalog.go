// Package catalog serves public reads from mirrored collections.
package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/GintGld/showreel/internal/lib/logger/sl"
	"github.com/GintGld/showreel/internal/lib/slug"
	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service"
	"github.com/GintGld/showreel/internal/service/mirror"
)

type Storage interface {
	AllVideos(ctx context.Context) ([]models.Video, error)
	AllSocialLinks(ctx context.Context) ([]models.SocialLink, error)
	AllEquipment(ctx context.Context) ([]models.Equipment, error)
}

type Catalog struct {
	log       *slog.Logger
	videos    *mirror.Mirror[models.Video]
	social    *mirror.Mirror[models.SocialLink]
	equipment *mirror.Mirror[models.Equipment]
}

func New(
	log *slog.Logger,
	hub mirror.Subscriber,
	storage Storage,
	timeout time.Duration,
) *Catalog {
	return &Catalog{
		log:       log,
		videos:    mirror.New(log, hub, models.CollectionVideos, storage.AllVideos, timeout),
		social:    mirror.New(log, hub, models.CollectionSocialLinks, storage.AllSocialLinks, timeout),
		equipment: mirror.New(log, hub, models.CollectionEquipment, storage.AllEquipment, timeout),
	}
}

// Run keeps collections in sync until ctx is done.
func (c *Catalog) Run(ctx context.Context) {
	const op = "Catalog.Run"

	log := c.log.With(slog.String("op", op))

	runners := []func(context.Context) error{c.videos.Run, c.social.Run, c.equipment.Run}

	var wg sync.WaitGroup
	wg.Add(len(runners))
	for _, run := range runners {
		go func(run func(context.Context) error) {
			defer wg.Done()
			if err := run(ctx); err != nil {
				log.Error("mirror stopped", sl.Err(err))
			}
		}(run)
	}
	wg.Wait()
}

// Ready is closed once every collection
// had its initial load.
func (c *Catalog) Ready() <-chan struct{} {
	ready := make(chan struct{})
	go func() {
		<-c.videos.Ready()
		<-c.social.Ready()
		<-c.equipment.Ready()
		close(ready)
	}()
	return ready
}

// Videos returns all videos, or those matching
// query when it is not empty.
func (c *Catalog) Videos(query string) ([]models.Video, *models.Notice) {
	return search(c.videos.Snapshot(), query), notice(c.videos.LastNotice())
}

// VideoBySlug resolves slug against the loaded videos.
func (c *Catalog) VideoBySlug(s string) (models.Video, error) {
	const op = "Catalog.VideoBySlug"

	video, ok := slug.Resolve(s, c.videos.Snapshot())
	if !ok {
		c.log.Debug("slug not resolved",
			slog.String("op", op),
			slog.String("slug", s),
		)
		return models.Video{}, service.ErrNotFound
	}

	return video, nil
}

func (c *Catalog) SocialLinks() ([]models.SocialLink, *models.Notice) {
	return c.social.Snapshot(), notice(c.social.LastNotice())
}

// Equipment returns items grouped by category.
func (c *Catalog) Equipment() ([]models.EquipmentGroup, *models.Notice) {
	return models.GroupEquipment(c.equipment.Snapshot()), notice(c.equipment.LastNotice())
}

func notice(n models.Notice, ok bool) *models.Notice {
	if !ok {
		return nil
	}
	return &n
}
