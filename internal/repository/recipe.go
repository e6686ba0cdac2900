package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/savora-app/backend/internal/models"
)

// RecipeFilter narrows a recipe listing to recipes linked to any of the
// given tag or ingredient ids. Empty slices mean no filtering.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeRepository defines the interface for recipe data operations.
type RecipeRepository interface {
	ListByUser(ctx context.Context, userID uint, filter RecipeFilter) ([]models.Recipe, error)
	FindByID(ctx context.Context, userID, id uint) (*models.Recipe, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	Save(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, recipe *models.Recipe) error
	ReplaceTags(ctx context.Context, recipe *models.Recipe, tags []models.Tag) error
	ReplaceIngredients(ctx context.Context, recipe *models.Recipe, ingredients []models.Ingredient) error
	UpdateImage(ctx context.Context, recipe *models.Recipe, path string) error
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new RecipeRepository instance.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) ListByUser(ctx context.Context, userID uint, filter RecipeFilter) ([]models.Recipe, error) {
	query := r.db.WithContext(ctx).Model(&models.Recipe{}).Scopes(ownedBy(userID))

	if len(filter.TagIDs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Where("recipe_tags.tag_id IN ?", filter.TagIDs)
	}
	if len(filter.IngredientIDs) > 0 {
		query = query.
			Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
			Where("recipe_ingredients.ingredient_id IN ?", filter.IngredientIDs)
	}

	var recipes []models.Recipe
	// A recipe matching several filter ids would otherwise appear once
	// per joined row.
	err := query.Distinct("recipes.*").
		Preload("Tags").
		Preload("Ingredients").
		Order("recipes.id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

func (r *recipeRepository) FindByID(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).Scopes(ownedBy(userID)).
		Preload("Tags").
		Preload("Ingredients").
		First(&recipe, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe %d: %w", id, err)
	}
	return &recipe, nil
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

func (r *recipeRepository) Save(ctx context.Context, recipe *models.Recipe) error {
	// Save only the scalar columns; associations are replaced explicitly
	// so the full-replace update semantics stay in one code path.
	err := r.db.WithContext(ctx).Omit("Tags", "Ingredients").Save(recipe).Error
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Select("Tags", "Ingredients").Delete(recipe).Error; err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

func (r *recipeRepository) ReplaceTags(ctx context.Context, recipe *models.Recipe, tags []models.Tag) error {
	if err := r.db.WithContext(ctx).Model(recipe).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("failed to replace recipe tags: %w", err)
	}
	recipe.Tags = tags
	return nil
}

func (r *recipeRepository) ReplaceIngredients(ctx context.Context, recipe *models.Recipe, ingredients []models.Ingredient) error {
	if err := r.db.WithContext(ctx).Model(recipe).Association("Ingredients").Replace(ingredients); err != nil {
		return fmt.Errorf("failed to replace recipe ingredients: %w", err)
	}
	recipe.Ingredients = ingredients
	return nil
}

func (r *recipeRepository) UpdateImage(ctx context.Context, recipe *models.Recipe, path string) error {
	if err := r.db.WithContext(ctx).Model(recipe).Update("image", path).Error; err != nil {
		return fmt.Errorf("failed to update recipe image: %w", err)
	}
	recipe.Image = path
	return nil
}
