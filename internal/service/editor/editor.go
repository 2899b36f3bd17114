// Package editor implements admin writes over the four collections,
// including manual reordering of hero images and equipment categories.
//
// The editor is not optimistic: every call returns only after the
// store has settled and publishes one change notification on success.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service"
	"github.com/GintGld/showreel/internal/service/realtime"
	"github.com/GintGld/showreel/internal/storage"
)

type Editor struct {
	log       *slog.Logger
	videos    VideoStorage
	hero      HeroStorage
	social    SocialStorage
	equipment EquipmentStorage
	publisher Publisher
}

type VideoStorage interface {
	AllVideos(ctx context.Context) ([]models.Video, error)
	SaveVideo(ctx context.Context, video models.Video) (models.Video, error)
	UpdateVideo(ctx context.Context, id string, patch models.VideoPatch) (models.Video, error)
	DeleteVideo(ctx context.Context, id string) error
}

type HeroStorage interface {
	AllHeroImages(ctx context.Context) ([]models.HeroImage, error)
	SaveHeroImage(ctx context.Context, image models.HeroImage) (models.HeroImage, error)
	UpdateHeroImage(ctx context.Context, id string, patch models.HeroImagePatch) (models.HeroImage, error)
	DeleteHeroImage(ctx context.Context, id string) error
	SwapHeroOrder(ctx context.Context, aID, bID string) error
}

type SocialStorage interface {
	SaveSocialLink(ctx context.Context, link models.SocialLink) (models.SocialLink, error)
	UpdateSocialLink(ctx context.Context, id string, patch models.SocialLinkPatch) (models.SocialLink, error)
	DeleteSocialLink(ctx context.Context, id string) error
}

type EquipmentStorage interface {
	AllEquipmentCategories(ctx context.Context) ([]models.EquipmentCategory, error)
	SaveEquipment(ctx context.Context, item models.Equipment) (models.Equipment, error)
	UpdateEquipment(ctx context.Context, id string, patch models.EquipmentPatch) (models.Equipment, error)
	DeleteEquipment(ctx context.Context, id string) error
	SwapCategoryOrder(ctx context.Context, aID, bID string) error
}

type Publisher interface {
	Publish(change realtime.Change)
}

func New(
	log *slog.Logger,
	videos VideoStorage,
	hero HeroStorage,
	social SocialStorage,
	equipment EquipmentStorage,
	publisher Publisher,
) *Editor {
	return &Editor{
		log:       log,
		videos:    videos,
		hero:      hero,
		social:    social,
		equipment: equipment,
		publisher: publisher,
	}
}

// mapErr translates storage errors into service errors.
func mapErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return service.ErrNotFound
	case errors.Is(err, storage.ErrExists):
		return service.ErrExists
	case errors.Is(err, storage.ErrContextCancelled):
		return service.ErrTimeout
	}
	return err
}

func (e *Editor) publish(collection models.Collection, kind realtime.Kind) {
	e.publisher.Publish(realtime.Change{Collection: collection, Kind: kind})
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &service.InvalidInputError{Field: field, Reason: "required"}
	}
	return nil
}

// requiredPatch checks a patched field
// is not cleared.
func requiredPatch(field string, value *string) error {
	if value == nil {
		return nil
	}
	return required(field, *value)
}

// neighbour returns id of the element next to id
// in direction dir.
func neighbour[T any](items []T, idOf func(T) string, id string, dir models.Direction) (string, error) {
	for i, item := range items {
		if idOf(item) != id {
			continue
		}

		j := i + int(dir)
		if j < 0 || j >= len(items) {
			return "", service.ErrCannotMove
		}
		return idOf(items[j]), nil
	}

	return "", service.ErrNotFound
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
