package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/savora-app/backend/internal/models"
)

// IngredientRepository defines the interface for ingredient data
// operations, owner-scoped like TagRepository.
type IngredientRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.Ingredient, error)
	FindByIDs(ctx context.Context, userID uint, ids []uint) ([]models.Ingredient, error)
	Create(ctx context.Context, ingredient *models.Ingredient) error
}

type ingredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates a new IngredientRepository instance.
func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) ListByUser(ctx context.Context, userID uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := r.db.WithContext(ctx).Scopes(ownedBy(userID)).Order("name DESC").Find(&ingredients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

func (r *ingredientRepository) FindByIDs(ctx context.Context, userID uint, ids []uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	err := r.db.WithContext(ctx).Scopes(ownedBy(userID)).Where("id IN ?", ids).Find(&ingredients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find ingredients by ids: %w", err)
	}
	return ingredients, nil
}

func (r *ingredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	if err := r.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return fmt.Errorf("failed to create ingredient: %w", err)
	}
	return nil
}
