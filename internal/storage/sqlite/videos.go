package sqlite

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/storage"
)

const videoColumns = `id, title, client, description, thumbnail_url, video_url,
	mobile_thumbnail_url, mobile_video_url, preview_url, featured, created_at, updated_at`

// AllVideos returns all videos, oldest first.
func (s *Storage) AllVideos(ctx context.Context) ([]models.Video, error) {
	const op = "storage.sqlite.AllVideos"

	videos := make([]models.Video, 0)
	if err := sqlscan.Select(ctx, s.db, &videos,
		`SELECT `+videoColumns+` FROM videos ORDER BY created_at, id`,
	); err != nil {
		return []models.Video{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return videos, nil
}

// Video returns video by id.
func (s *Storage) Video(ctx context.Context, id string) (models.Video, error) {
	const op = "storage.sqlite.Video"

	var video models.Video
	if err := sqlscan.Get(ctx, s.db, &video,
		`SELECT `+videoColumns+` FROM videos WHERE id = ?`, id,
	); err != nil {
		if sqlscan.NotFound(err) {
			return models.Video{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.Video{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return video, nil
}

// SaveVideo inserts video. Id and timestamps
// are assigned here, given ones are ignored.
func (s *Storage) SaveVideo(ctx context.Context, video models.Video) (models.Video, error) {
	const op = "storage.sqlite.SaveVideo"

	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO videos(`+videoColumns+`)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return models.Video{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	ts := now()
	video.ID = uuid.NewString()
	video.CreatedAt, video.UpdatedAt = ts, ts

	if _, err := stmt.ExecContext(ctx,
		video.ID, video.Title, video.Client, video.Description,
		video.ThumbnailURL, video.VideoURL,
		video.MobileThumbnailURL, video.MobileVideoURL, video.PreviewURL,
		video.Featured, video.CreatedAt, video.UpdatedAt,
	); err != nil {
		return models.Video{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return s.Video(ctx, video.ID)
}

// UpdateVideo applies patch to video
// and returns the stored result.
func (s *Storage) UpdateVideo(ctx context.Context, id string, patch models.VideoPatch) (models.Video, error) {
	const op = "storage.sqlite.UpdateVideo"

	var u updateSet
	set(&u, "title", patch.Title)
	set(&u, "client", patch.Client)
	set(&u, "description", patch.Description)
	set(&u, "thumbnail_url", patch.ThumbnailURL)
	set(&u, "video_url", patch.VideoURL)
	set(&u, "mobile_thumbnail_url", patch.MobileThumbnailURL)
	set(&u, "mobile_video_url", patch.MobileVideoURL)
	set(&u, "preview_url", patch.PreviewURL)
	set(&u, "featured", patch.Featured)

	query, args := u.query("videos", id)
	if err := execAffecting(ctx, s.db, query, args...); err != nil {
		return models.Video{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.Video(ctx, id)
}

// DeleteVideo deletes video by id.
func (s *Storage) DeleteVideo(ctx context.Context, id string) error {
	const op = "storage.sqlite.DeleteVideo"

	if err := execAffecting(ctx, s.db, "DELETE FROM videos WHERE id = ?", id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
