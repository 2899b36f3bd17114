package models

import (
	"slices"
	"time"
)

type Equipment struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	CategoryID    string    `json:"categoryId" db:"category_id"`
	Category      string    `json:"category" db:"category"`
	CategoryOrder int       `json:"categoryOrder" db:"category_order"`
	Description   *string   `json:"description" db:"description"`
	Order         int       `json:"order" db:"sort_order"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

type EquipmentPatch struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

type EquipmentCategory struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Order int    `json:"order" db:"sort_order"`
}

type EquipmentGroup struct {
	Category EquipmentCategory `json:"category"`
	Items    []Equipment       `json:"items"`
}

// GroupEquipment groups items by category.
// Groups are ordered by category order,
// items inside a group by their own order.
func GroupEquipment(items []Equipment) []EquipmentGroup {
	index := make(map[string]int)
	groups := make([]EquipmentGroup, 0)

	for _, item := range items {
		i, ok := index[item.CategoryID]
		if !ok {
			i = len(groups)
			index[item.CategoryID] = i
			groups = append(groups, EquipmentGroup{
				Category: EquipmentCategory{
					ID:    item.CategoryID,
					Name:  item.Category,
					Order: item.CategoryOrder,
				},
			})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	slices.SortStableFunc(groups, func(a, b EquipmentGroup) int {
		return a.Category.Order - b.Category.Order
	})
	for _, g := range groups {
		slices.SortStableFunc(g.Items, func(a, b Equipment) int {
			return a.Order - b.Order
		})
	}

	return groups
}
