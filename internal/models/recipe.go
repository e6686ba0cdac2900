package models

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Tag is a user-owned label for organizing recipes. Names are not
// unique per owner; duplicates are allowed.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
}

// Ingredient mirrors Tag: a flat user-owned named entity.
type Ingredient struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
}

type Recipe struct {
	ID            uint         `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	UserID        uint         `gorm:"not null;index" json:"user_id"`
	Title         string       `gorm:"size:255;not null" json:"title"`
	TimeInMinutes int          `gorm:"not null" json:"time_in_minutes"`
	Price         float64      `gorm:"not null" json:"price"`
	Link          string       `gorm:"size:255" json:"link"`
	Image         string       `gorm:"size:255" json:"image"`
	Tags          []Tag        `gorm:"many2many:recipe_tags" json:"tags"`
	Ingredients   []Ingredient `gorm:"many2many:recipe_ingredients" json:"ingredients"`
}

// RecipeImagePath builds the storage path for an uploaded recipe image.
// The original extension is preserved; the basename is random so paths
// are unguessable.
func RecipeImagePath(filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("uploads/recipe/%s%s", uuid.New().String(), ext)
}
