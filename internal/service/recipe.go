package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log"

	// Registered so image.DecodeConfig recognizes the formats clients
	// actually upload.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"gorm.io/gorm"

	"github.com/savora-app/backend/internal/models"
	"github.com/savora-app/backend/internal/repository"
)

// CreateRecipeInput carries a validated create payload.
type CreateRecipeInput struct {
	Title         string
	TimeInMinutes int
	Price         float64
	Link          string
	TagIDs        []uint
	IngredientIDs []uint
}

// UpdateRecipeInput carries an update payload. Nil fields were absent
// from the request; for full updates absent association lists mean
// "replace with empty", for partial updates they mean "leave unchanged".
type UpdateRecipeInput struct {
	Title         *string
	TimeInMinutes *int
	Price         *float64
	Link          *string
	TagIDs        *[]uint
	IngredientIDs *[]uint
}

// RecipeService implements owner-scoped recipe operations.
type RecipeService struct {
	recipes     repository.RecipeRepository
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
	media       MediaStore
}

// NewRecipeService creates a new RecipeService instance.
func NewRecipeService(recipes repository.RecipeRepository, tags repository.TagRepository, ingredients repository.IngredientRepository, media MediaStore) *RecipeService {
	return &RecipeService{
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		media:       media,
	}
}

// List returns the caller's recipes, newest first, optionally narrowed
// by tag/ingredient id filters.
func (s *RecipeService) List(ctx context.Context, userID uint, filter repository.RecipeFilter) ([]models.Recipe, error) {
	return s.recipes.ListByUser(ctx, userID, filter)
}

// Get returns one recipe with tags and ingredients loaded. A recipe
// owned by someone else is reported as missing.
func (s *RecipeService) Get(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	recipe, err := s.recipes.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return recipe, nil
}

// Create stores a new recipe for the user and links the given tag and
// ingredient ids, which must belong to the same user.
func (s *RecipeService) Create(ctx context.Context, userID uint, input CreateRecipeInput) (*models.Recipe, error) {
	tags, err := s.resolveTags(ctx, userID, input.TagIDs)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.resolveIngredients(ctx, userID, input.IngredientIDs)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		UserID:        userID,
		Title:         input.Title,
		TimeInMinutes: input.TimeInMinutes,
		Price:         input.Price,
		Link:          input.Link,
	}
	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, err
	}
	if err := s.recipes.ReplaceTags(ctx, recipe, tags); err != nil {
		return nil, err
	}
	if err := s.recipes.ReplaceIngredients(ctx, recipe, ingredients); err != nil {
		return nil, err
	}
	return recipe, nil
}

// Update applies a partial (PATCH) or full (PUT) update. Association
// lists are always replaced wholesale when present; a full update with
// no list clears the associations.
func (s *RecipeService) Update(ctx context.Context, userID, id uint, input UpdateRecipeInput, partial bool) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		recipe.Title = *input.Title
	}
	if input.TimeInMinutes != nil {
		recipe.TimeInMinutes = *input.TimeInMinutes
	}
	if input.Price != nil {
		recipe.Price = *input.Price
	}
	if input.Link != nil {
		recipe.Link = *input.Link
	}
	if err := s.recipes.Save(ctx, recipe); err != nil {
		return nil, err
	}

	if input.TagIDs != nil || !partial {
		var ids []uint
		if input.TagIDs != nil {
			ids = *input.TagIDs
		}
		tags, err := s.resolveTags(ctx, userID, ids)
		if err != nil {
			return nil, err
		}
		if err := s.recipes.ReplaceTags(ctx, recipe, tags); err != nil {
			return nil, err
		}
	}
	if input.IngredientIDs != nil || !partial {
		var ids []uint
		if input.IngredientIDs != nil {
			ids = *input.IngredientIDs
		}
		ingredients, err := s.resolveIngredients(ctx, userID, ids)
		if err != nil {
			return nil, err
		}
		if err := s.recipes.ReplaceIngredients(ctx, recipe, ingredients); err != nil {
			return nil, err
		}
	}
	return recipe, nil
}

// Delete removes a recipe and its stored image file, if any.
func (s *RecipeService) Delete(ctx context.Context, userID, id uint) error {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, recipe); err != nil {
		return err
	}
	if recipe.Image != "" {
		if err := s.media.Remove(ctx, recipe.Image); err != nil {
			// The row is already gone; losing the file is not worth
			// failing the request over.
			log.Printf("Failed to remove image for deleted recipe %d: %v", id, err)
		}
	}
	return nil
}

// UploadImage validates and stores a recipe image, then swaps the
// recipe's image reference. Validation happens before any write, so a
// bad upload leaves the existing image untouched.
func (s *RecipeService) UploadImage(ctx context.Context, userID, id uint, data []byte, filename string) (string, error) {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", ErrNotAnImage
	}

	path := models.RecipeImagePath(filename)
	if err := s.media.Save(ctx, path, data); err != nil {
		return "", err
	}

	previous := recipe.Image
	if err := s.recipes.UpdateImage(ctx, recipe, path); err != nil {
		return "", err
	}
	if previous != "" && previous != path {
		if err := s.media.Remove(ctx, previous); err != nil {
			log.Printf("Failed to remove replaced image %s: %v", previous, err)
		}
	}
	return s.media.URL(path), nil
}

// ImageURL maps a recipe's stored image path to a client-facing URL.
func (s *RecipeService) ImageURL(recipe *models.Recipe) string {
	if recipe.Image == "" {
		return ""
	}
	return s.media.URL(recipe.Image)
}

func (s *RecipeService) resolveTags(ctx context.Context, userID uint, ids []uint) ([]models.Tag, error) {
	ids = dedupe(ids)
	tags, err := s.tags.FindByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, ErrUnknownTag
	}
	return tags, nil
}

func (s *RecipeService) resolveIngredients(ctx context.Context, userID uint, ids []uint) ([]models.Ingredient, error) {
	ids = dedupe(ids)
	ingredients, err := s.ingredients.FindByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	if len(ingredients) != len(ids) {
		return nil, ErrUnknownIngredient
	}
	return ingredients, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
