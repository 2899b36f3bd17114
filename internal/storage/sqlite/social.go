package sqlite

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/storage"
)

const socialColumns = `id, name, url, username, icon, created_at, updated_at`

// AllSocialLinks returns social links in insertion order.
func (s *Storage) AllSocialLinks(ctx context.Context) ([]models.SocialLink, error) {
	const op = "storage.sqlite.AllSocialLinks"

	links := make([]models.SocialLink, 0)
	if err := sqlscan.Select(ctx, s.db, &links,
		`SELECT `+socialColumns+` FROM social_links ORDER BY created_at, id`,
	); err != nil {
		return []models.SocialLink{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return links, nil
}

func (s *Storage) SocialLink(ctx context.Context, id string) (models.SocialLink, error) {
	const op = "storage.sqlite.SocialLink"

	var link models.SocialLink
	if err := sqlscan.Get(ctx, s.db, &link,
		`SELECT `+socialColumns+` FROM social_links WHERE id = ?`, id,
	); err != nil {
		if sqlscan.NotFound(err) {
			return models.SocialLink{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.SocialLink{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return link, nil
}

func (s *Storage) SaveSocialLink(ctx context.Context, link models.SocialLink) (models.SocialLink, error) {
	const op = "storage.sqlite.SaveSocialLink"

	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO social_links(`+socialColumns+`)
		VALUES(?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return models.SocialLink{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	ts := now()
	link.ID = uuid.NewString()

	if _, err := stmt.ExecContext(ctx,
		link.ID, link.Name, link.URL, link.Username, link.Icon, ts, ts,
	); err != nil {
		return models.SocialLink{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return s.SocialLink(ctx, link.ID)
}

func (s *Storage) UpdateSocialLink(ctx context.Context, id string, patch models.SocialLinkPatch) (models.SocialLink, error) {
	const op = "storage.sqlite.UpdateSocialLink"

	var u updateSet
	set(&u, "name", patch.Name)
	set(&u, "url", patch.URL)
	set(&u, "username", patch.Username)
	set(&u, "icon", patch.Icon)

	query, args := u.query("social_links", id)
	if err := execAffecting(ctx, s.db, query, args...); err != nil {
		return models.SocialLink{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.SocialLink(ctx, id)
}

func (s *Storage) DeleteSocialLink(ctx context.Context, id string) error {
	const op = "storage.sqlite.DeleteSocialLink"

	if err := execAffecting(ctx, s.db, "DELETE FROM social_links WHERE id = ?", id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
