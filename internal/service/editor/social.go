package editor

import (
	"context"
	"log/slog"

	"github.com/GintGld/showreel/internal/lib/logger/sl"
	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service"
	"github.com/GintGld/showreel/internal/service/realtime"
)

func (e *Editor) AddSocialLink(ctx context.Context, link models.SocialLink) (models.SocialLink, error) {
	const op = "Editor.AddSocialLink"

	log := e.log.With(
		slog.String("op", op),
		slog.String("name", link.Name),
	)

	if err := firstErr(
		required("name", link.Name),
		required("url", link.URL),
		validIcon(link.Icon),
	); err != nil {
		log.Info("invalid social link", sl.Err(err))
		return models.SocialLink{}, wrap(op, err)
	}

	link, err := e.social.SaveSocialLink(ctx, link)
	if err != nil {
		log.Error("failed to save social link", sl.Err(err))
		return models.SocialLink{}, wrap(op, mapErr(err))
	}

	log.Info("social link added", slog.String("id", link.ID))
	e.publish(models.CollectionSocialLinks, realtime.Insert)

	return link, nil
}

func (e *Editor) UpdateSocialLink(ctx context.Context, id string, patch models.SocialLinkPatch) (models.SocialLink, error) {
	const op = "Editor.UpdateSocialLink"

	log := e.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	err := firstErr(
		requiredPatch("name", patch.Name),
		requiredPatch("url", patch.URL),
	)
	if err == nil && patch.Icon != nil {
		err = validIcon(*patch.Icon)
	}
	if err != nil {
		log.Info("invalid patch", sl.Err(err))
		return models.SocialLink{}, wrap(op, err)
	}

	link, err := e.social.UpdateSocialLink(ctx, id, patch)
	if err != nil {
		log.Error("failed to update social link", sl.Err(err))
		return models.SocialLink{}, wrap(op, mapErr(err))
	}

	log.Info("social link updated")
	e.publish(models.CollectionSocialLinks, realtime.Update)

	return link, nil
}

func (e *Editor) DeleteSocialLink(ctx context.Context, id string) error {
	const op = "Editor.DeleteSocialLink"

	log := e.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	if err := e.social.DeleteSocialLink(ctx, id); err != nil {
		log.Error("failed to delete social link", sl.Err(err))
		return wrap(op, mapErr(err))
	}

	log.Info("social link deleted")
	e.publish(models.CollectionSocialLinks, realtime.Delete)

	return nil
}

func validIcon(icon string) error {
	if !models.ValidIcon(icon) {
		return &service.InvalidInputError{Field: "icon", Reason: "is unknown"}
	}
	return nil
}
