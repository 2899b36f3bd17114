package sqlite

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/storage"
)

const heroColumns = `id, image_url, title, description, sort_order, created_at, updated_at`

// AllHeroImages returns hero images sorted by order.
func (s *Storage) AllHeroImages(ctx context.Context) ([]models.HeroImage, error) {
	const op = "storage.sqlite.AllHeroImages"

	images := make([]models.HeroImage, 0)
	if err := sqlscan.Select(ctx, s.db, &images,
		`SELECT `+heroColumns+` FROM hero_images ORDER BY sort_order, created_at`,
	); err != nil {
		return []models.HeroImage{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return images, nil
}

func (s *Storage) HeroImage(ctx context.Context, id string) (models.HeroImage, error) {
	const op = "storage.sqlite.HeroImage"

	var image models.HeroImage
	if err := sqlscan.Get(ctx, s.db, &image,
		`SELECT `+heroColumns+` FROM hero_images WHERE id = ?`, id,
	); err != nil {
		if sqlscan.NotFound(err) {
			return models.HeroImage{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.HeroImage{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return image, nil
}

// SaveHeroImage inserts image with order
// equal to current maximum plus one.
func (s *Storage) SaveHeroImage(ctx context.Context, image models.HeroImage) (models.HeroImage, error) {
	const op = "storage.sqlite.SaveHeroImage"

	// max+1 is computed by the insert itself,
	// two concurrent inserts can not get the same order.
	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO hero_images(`+heroColumns+`)
		SELECT ?, ?, ?, ?, COALESCE(MAX(sort_order), 0) + 1, ?, ?
		FROM hero_images
	`)
	if err != nil {
		return models.HeroImage{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	ts := now()
	image.ID = uuid.NewString()

	if _, err := stmt.ExecContext(ctx,
		image.ID, image.ImageURL, image.Title, image.Description, ts, ts,
	); err != nil {
		return models.HeroImage{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return s.HeroImage(ctx, image.ID)
}

func (s *Storage) UpdateHeroImage(ctx context.Context, id string, patch models.HeroImagePatch) (models.HeroImage, error) {
	const op = "storage.sqlite.UpdateHeroImage"

	var u updateSet
	set(&u, "image_url", patch.ImageURL)
	set(&u, "title", patch.Title)
	set(&u, "description", patch.Description)

	query, args := u.query("hero_images", id)
	if err := execAffecting(ctx, s.db, query, args...); err != nil {
		return models.HeroImage{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.HeroImage(ctx, id)
}

// DeleteHeroImage deletes image,
// orders of the rest are kept as is.
func (s *Storage) DeleteHeroImage(ctx context.Context, id string) error {
	const op = "storage.sqlite.DeleteHeroImage"

	if err := execAffecting(ctx, s.db, "DELETE FROM hero_images WHERE id = ?", id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SwapHeroOrder exchanges orders of two images
// in one transaction.
func (s *Storage) SwapHeroOrder(ctx context.Context, aID, bID string) error {
	const op = "storage.sqlite.SwapHeroOrder"

	if err := s.swapOrder(ctx, "hero_images", aID, bID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// swapOrder exchanges sort_order of two rows of the table.
func (s *Storage) swapOrder(ctx context.Context, table string, aID, bID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback()

	var orders []struct {
		ID    string `db:"id"`
		Order int    `db:"sort_order"`
	}
	if err := sqlscan.Select(ctx, tx, &orders,
		fmt.Sprintf("SELECT id, sort_order FROM %s WHERE id IN (?, ?)", table), aID, bID,
	); err != nil {
		return mapErr(err)
	}
	if len(orders) != 2 {
		return storage.ErrNotFound
	}

	query := fmt.Sprintf("UPDATE %s SET sort_order = ? WHERE id = ?", table)
	if err := execAffecting(ctx, tx, query, orders[1].Order, orders[0].ID); err != nil {
		return err
	}
	if err := execAffecting(ctx, tx, query, orders[0].Order, orders[1].ID); err != nil {
		return err
	}

	return mapErr(tx.Commit())
}
