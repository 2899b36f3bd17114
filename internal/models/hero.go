package models

import "time"

type HeroImage struct {
	ID          string    `json:"id" db:"id"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	Title       *string   `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Order       int       `json:"order" db:"sort_order"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type HeroImagePatch struct {
	ImageURL    *string `json:"imageUrl"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}
