package editor

import (
	"context"
	"log/slog"

	"github.com/GintGld/showreel/internal/lib/logger/sl"
	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service/realtime"
)

// AddHeroImage appends image to the end
// of the slideshow (order max+1).
func (e *Editor) AddHeroImage(ctx context.Context, image models.HeroImage) (models.HeroImage, error) {
	const op = "Editor.AddHeroImage"

	log := e.log.With(slog.String("op", op))

	if err := required("imageUrl", image.ImageURL); err != nil {
		log.Info("invalid hero image", sl.Err(err))
		return models.HeroImage{}, wrap(op, err)
	}

	image, err := e.hero.SaveHeroImage(ctx, image)
	if err != nil {
		log.Error("failed to save hero image", sl.Err(err))
		return models.HeroImage{}, wrap(op, mapErr(err))
	}

	log.Info("hero image added",
		slog.String("id", image.ID),
		slog.Int("order", image.Order),
	)
	e.publish(models.CollectionHeroImages, realtime.Insert)

	return image, nil
}

func (e *Editor) UpdateHeroImage(ctx context.Context, id string, patch models.HeroImagePatch) (models.HeroImage, error) {
	const op = "Editor.UpdateHeroImage"

	log := e.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	if err := requiredPatch("imageUrl", patch.ImageURL); err != nil {
		log.Info("invalid patch", sl.Err(err))
		return models.HeroImage{}, wrap(op, err)
	}

	image, err := e.hero.UpdateHeroImage(ctx, id, patch)
	if err != nil {
		log.Error("failed to update hero image", sl.Err(err))
		return models.HeroImage{}, wrap(op, mapErr(err))
	}

	log.Info("hero image updated")
	e.publish(models.CollectionHeroImages, realtime.Update)

	return image, nil
}

func (e *Editor) DeleteHeroImage(ctx context.Context, id string) error {
	const op = "Editor.DeleteHeroImage"

	log := e.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	if err := e.hero.DeleteHeroImage(ctx, id); err != nil {
		log.Error("failed to delete hero image", sl.Err(err))
		return wrap(op, mapErr(err))
	}

	log.Info("hero image deleted")
	e.publish(models.CollectionHeroImages, realtime.Delete)

	return nil
}

// MoveHeroImage swaps order of the image and
// its neighbour in direction dir.
func (e *Editor) MoveHeroImage(ctx context.Context, id string, dir models.Direction) error {
	const op = "Editor.MoveHeroImage"

	log := e.log.With(
		slog.String("op", op),
		slog.String("id", id),
		slog.String("dir", dir.String()),
	)

	images, err := e.hero.AllHeroImages(ctx)
	if err != nil {
		log.Error("failed to list hero images", sl.Err(err))
		return wrap(op, mapErr(err))
	}

	other, err := neighbour(images, func(i models.HeroImage) string { return i.ID }, id, dir)
	if err != nil {
		log.Info("can not move hero image", sl.Err(err))
		return wrap(op, err)
	}

	if err := e.hero.SwapHeroOrder(ctx, id, other); err != nil {
		log.Error("failed to swap hero images", sl.Err(err))
		return wrap(op, mapErr(err))
	}

	log.Info("hero image moved", slog.String("swapped_with", other))
	e.publish(models.CollectionHeroImages, realtime.Update)

	return nil
}
