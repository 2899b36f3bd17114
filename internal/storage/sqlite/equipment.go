package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/storage"
)

const equipmentSelect = `
	SELECT e.id, e.name, e.category_id, c.name AS category, c.sort_order AS category_order,
		e.description, e.sort_order, e.created_at, e.updated_at
	FROM equipment AS e
	JOIN equipment_categories AS c ON c.id = e.category_id
`

// AllEquipment returns items sorted by
// category order, then by item order.
func (s *Storage) AllEquipment(ctx context.Context) ([]models.Equipment, error) {
	const op = "storage.sqlite.AllEquipment"

	items := make([]models.Equipment, 0)
	if err := sqlscan.Select(ctx, s.db, &items,
		equipmentSelect+` ORDER BY c.sort_order, e.sort_order`,
	); err != nil {
		return []models.Equipment{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return items, nil
}

func (s *Storage) Equipment(ctx context.Context, id string) (models.Equipment, error) {
	const op = "storage.sqlite.Equipment"

	var item models.Equipment
	if err := sqlscan.Get(ctx, s.db, &item, equipmentSelect+` WHERE e.id = ?`, id); err != nil {
		if sqlscan.NotFound(err) {
			return models.Equipment{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.Equipment{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return item, nil
}

// AllEquipmentCategories returns categories sorted by order.
func (s *Storage) AllEquipmentCategories(ctx context.Context) ([]models.EquipmentCategory, error) {
	const op = "storage.sqlite.AllEquipmentCategories"

	categories := make([]models.EquipmentCategory, 0)
	if err := sqlscan.Select(ctx, s.db, &categories,
		`SELECT id, name, sort_order FROM equipment_categories ORDER BY sort_order, name`,
	); err != nil {
		return []models.EquipmentCategory{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return categories, nil
}

// SaveEquipment inserts item into category (created on first use).
// Item order is the global maximum plus one.
func (s *Storage) SaveEquipment(ctx context.Context, item models.Equipment) (models.Equipment, error) {
	const op = "storage.sqlite.SaveEquipment"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Equipment{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	defer tx.Rollback()

	categoryID, err := s.saveEquipmentSubCategory(ctx, tx, item.Category)
	if err != nil {
		return models.Equipment{}, fmt.Errorf("%s: %w", op, err)
	}

	ts := now()
	item.ID = uuid.NewString()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO equipment(id, name, category_id, description, sort_order, created_at, updated_at)
		SELECT ?, ?, ?, ?, COALESCE(MAX(sort_order), 0) + 1, ?, ?
		FROM equipment
	`, item.ID, item.Name, categoryID, item.Description, ts, ts); err != nil {
		return models.Equipment{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	if err := tx.Commit(); err != nil {
		return models.Equipment{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return s.Equipment(ctx, item.ID)
}

// saveEquipmentSubCategory returns id of category with given name,
// creating it with order max+1 if it does not exist.
func (s *Storage) saveEquipmentSubCategory(ctx context.Context, tx *sql.Tx, name string) (string, error) {
	const op = "saveEquipmentSubCategory"

	var id string
	err := tx.QueryRowContext(ctx, "SELECT id FROM equipment_categories WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", op, mapErr(err))
	}

	id = uuid.NewString()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO equipment_categories(id, name, sort_order)
		SELECT ?, ?, COALESCE(MAX(sort_order), 0) + 1
		FROM equipment_categories
	`, id, name); err != nil {
		return "", fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return id, nil
}

// pruneEquipmentSubCategory removes category left without items.
func (s *Storage) pruneEquipmentSubCategory(ctx context.Context, tx *sql.Tx, categoryID string) error {
	const op = "pruneEquipmentSubCategory"

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM equipment_categories
		WHERE id = ? AND NOT EXISTS (SELECT 1 FROM equipment WHERE category_id = ?)
	`, categoryID, categoryID); err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return nil
}

// UpdateEquipment applies patch. Changing category moves
// the item to another (possibly new) category.
func (s *Storage) UpdateEquipment(ctx context.Context, id string, patch models.EquipmentPatch) (models.Equipment, error) {
	const op = "storage.sqlite.UpdateEquipment"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Equipment{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	defer tx.Rollback()

	var oldCategoryID string
	if err := tx.QueryRowContext(ctx, "SELECT category_id FROM equipment WHERE id = ?", id).Scan(&oldCategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Equipment{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.Equipment{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	var u updateSet
	set(&u, "name", patch.Name)
	set(&u, "description", patch.Description)

	if patch.Category != nil {
		categoryID, err := s.saveEquipmentSubCategory(ctx, tx, *patch.Category)
		if err != nil {
			return models.Equipment{}, fmt.Errorf("%s: %w", op, err)
		}
		set(&u, "category_id", &categoryID)
	}

	query, args := u.query("equipment", id)
	if err := execAffecting(ctx, tx, query, args...); err != nil {
		return models.Equipment{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.pruneEquipmentSubCategory(ctx, tx, oldCategoryID); err != nil {
		return models.Equipment{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Equipment{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return s.Equipment(ctx, id)
}

// DeleteEquipment deletes item. Item orders are not renumbered,
// an emptied category is removed.
func (s *Storage) DeleteEquipment(ctx context.Context, id string) error {
	const op = "storage.sqlite.DeleteEquipment"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	defer tx.Rollback()

	var categoryID string
	if err := tx.QueryRowContext(ctx, "SELECT category_id FROM equipment WHERE id = ?", id).Scan(&categoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}

	if err := execAffecting(ctx, tx, "DELETE FROM equipment WHERE id = ?", id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.pruneEquipmentSubCategory(ctx, tx, categoryID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return nil
}

// SwapCategoryOrder exchanges orders of two categories
// in one transaction. Items follow their category.
func (s *Storage) SwapCategoryOrder(ctx context.Context, aID, bID string) error {
	const op = "storage.sqlite.SwapCategoryOrder"

	if err := s.swapOrder(ctx, "equipment_categories", aID, bID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
