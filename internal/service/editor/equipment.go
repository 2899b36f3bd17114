package editor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/GintGld/showreel/internal/lib/logger/sl"
	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service/realtime"
)

// AddEquipment stores item with order max+1 across all
// equipment. Unknown category is created at the end.
func (e *Editor) AddEquipment(ctx context.Context, item models.Equipment) (models.Equipment, error) {
	const op = "Editor.AddEquipment"

	item.Category = strings.TrimSpace(item.Category)

	log := e.log.With(
		slog.String("op", op),
		slog.String("name", item.Name),
		slog.String("category", item.Category),
	)

	if err := firstErr(
		required("name", item.Name),
		required("category", item.Category),
	); err != nil {
		log.Info("invalid equipment", sl.Err(err))
		return models.Equipment{}, wrap(op, err)
	}

	item, err := e.equipment.SaveEquipment(ctx, item)
	if err != nil {
		log.Error("failed to save equipment", sl.Err(err))
		return models.Equipment{}, wrap(op, mapErr(err))
	}

	log.Info("equipment added",
		slog.String("id", item.ID),
		slog.Int("order", item.Order),
	)
	e.publish(models.CollectionEquipment, realtime.Insert)

	return item, nil
}

func (e *Editor) UpdateEquipment(ctx context.Context, id string, patch models.EquipmentPatch) (models.Equipment, error) {
	const op = "Editor.UpdateEquipment"

	log := e.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	if patch.Category != nil {
		category := strings.TrimSpace(*patch.Category)
		patch.Category = &category
	}

	if err := firstErr(
		requiredPatch("name", patch.Name),
		requiredPatch("category", patch.Category),
	); err != nil {
		log.Info("invalid patch", sl.Err(err))
		return models.Equipment{}, wrap(op, err)
	}

	item, err := e.equipment.UpdateEquipment(ctx, id, patch)
	if err != nil {
		log.Error("failed to update equipment", sl.Err(err))
		return models.Equipment{}, wrap(op, mapErr(err))
	}

	log.Info("equipment updated")
	e.publish(models.CollectionEquipment, realtime.Update)

	return item, nil
}

func (e *Editor) DeleteEquipment(ctx context.Context, id string) error {
	const op = "Editor.DeleteEquipment"

	log := e.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	if err := e.equipment.DeleteEquipment(ctx, id); err != nil {
		log.Error("failed to delete equipment", sl.Err(err))
		return wrap(op, mapErr(err))
	}

	log.Info("equipment deleted")
	e.publish(models.CollectionEquipment, realtime.Delete)

	return nil
}

// MoveCategory swaps order of the category and its
// neighbour in direction dir. All items follow their category.
func (e *Editor) MoveCategory(ctx context.Context, id string, dir models.Direction) error {
	const op = "Editor.MoveCategory"

	log := e.log.With(
		slog.String("op", op),
		slog.String("id", id),
		slog.String("dir", dir.String()),
	)

	categories, err := e.equipment.AllEquipmentCategories(ctx)
	if err != nil {
		log.Error("failed to list categories", sl.Err(err))
		return wrap(op, mapErr(err))
	}

	other, err := neighbour(categories, func(c models.EquipmentCategory) string { return c.ID }, id, dir)
	if err != nil {
		log.Info("can not move category", sl.Err(err))
		return wrap(op, err)
	}

	if err := e.equipment.SwapCategoryOrder(ctx, id, other); err != nil {
		log.Error("failed to swap categories", sl.Err(err))
		return wrap(op, mapErr(err))
	}

	log.Info("category moved", slog.String("swapped_with", other))
	e.publish(models.CollectionEquipment, realtime.Update)

	return nil
}
