package editor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/GintGld/showreel/internal/lib/logger/sl"
	"github.com/GintGld/showreel/internal/lib/mediasrc"
	"github.com/GintGld/showreel/internal/lib/slug"
	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service"
	"github.com/GintGld/showreel/internal/service/realtime"
)

func (e *Editor) AddVideo(ctx context.Context, video models.Video) (models.Video, error) {
	const op = "Editor.AddVideo"

	log := e.log.With(
		slog.String("op", op),
		slog.String("title", video.Title),
	)

	if err := validateVideo(video); err != nil {
		log.Info("invalid video", sl.Err(err))
		return models.Video{}, wrap(op, err)
	}

	video, err := e.videos.SaveVideo(ctx, video)
	if err != nil {
		log.Error("failed to save video", sl.Err(err))
		return models.Video{}, wrap(op, mapErr(err))
	}

	log.Info("video added", slog.String("id", video.ID))
	e.publish(models.CollectionVideos, realtime.Insert)
	e.warnSlugCollisions(ctx, log)

	return video, nil
}

func (e *Editor) UpdateVideo(ctx context.Context, id string, patch models.VideoPatch) (models.Video, error) {
	const op = "Editor.UpdateVideo"

	log := e.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	if err := validateVideoPatch(patch); err != nil {
		log.Info("invalid patch", sl.Err(err))
		return models.Video{}, wrap(op, err)
	}

	video, err := e.videos.UpdateVideo(ctx, id, patch)
	if err != nil {
		log.Error("failed to update video", sl.Err(err))
		return models.Video{}, wrap(op, mapErr(err))
	}

	log.Info("video updated")
	e.publish(models.CollectionVideos, realtime.Update)
	if patch.Title != nil {
		e.warnSlugCollisions(ctx, log)
	}

	return video, nil
}

func (e *Editor) DeleteVideo(ctx context.Context, id string) error {
	const op = "Editor.DeleteVideo"

	log := e.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	if err := e.videos.DeleteVideo(ctx, id); err != nil {
		log.Error("failed to delete video", sl.Err(err))
		return wrap(op, mapErr(err))
	}

	log.Info("video deleted")
	e.publish(models.CollectionVideos, realtime.Delete)

	return nil
}

// warnSlugCollisions logs titles that no longer
// resolve to a single video.
func (e *Editor) warnSlugCollisions(ctx context.Context, log *slog.Logger) {
	videos, err := e.videos.AllVideos(ctx)
	if err != nil {
		log.Warn("failed to check slug collisions", sl.Err(err))
		return
	}

	for s, ids := range slug.Collisions(videos) {
		log.Warn("videos share a slug, only the first one is reachable",
			slog.String("slug", s),
			slog.String("ids", strings.Join(ids, ",")),
		)
	}
}

func validateVideo(v models.Video) error {
	if err := firstErr(
		required("title", v.Title),
		required("thumbnailUrl", v.ThumbnailURL),
		required("videoUrl", v.VideoURL),
	); err != nil {
		return err
	}

	if slug.Make(v.Title) == "" {
		return &service.InvalidInputError{Field: "title", Reason: "has no url-safe characters"}
	}
	if _, err := mediasrc.Parse(v.VideoURL); err != nil {
		return &service.InvalidInputError{Field: "videoUrl", Reason: "is not a valid url"}
	}

	return nil
}

func validateVideoPatch(p models.VideoPatch) error {
	if err := firstErr(
		requiredPatch("title", p.Title),
		requiredPatch("thumbnailUrl", p.ThumbnailURL),
		requiredPatch("videoUrl", p.VideoURL),
	); err != nil {
		return err
	}

	if p.Title != nil && slug.Make(*p.Title) == "" {
		return &service.InvalidInputError{Field: "title", Reason: "has no url-safe characters"}
	}
	if p.VideoURL != nil {
		if _, err := mediasrc.Parse(*p.VideoURL); err != nil {
			return &service.InvalidInputError{Field: "videoUrl", Reason: "is not a valid url"}
		}
	}

	return nil
}
