package api

import (
	"github.com/savora-app/backend/internal/models"
	"github.com/savora-app/backend/internal/service"
)

// Request bodies. Validation lives in the binding tags so a malformed
// payload never reaches the service layer.

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

type TokenRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateMeRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

type CreateNamedRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateRecipeRequest struct {
	Title         string  `json:"title" binding:"required"`
	TimeInMinutes int     `json:"time_in_minutes" binding:"required,gt=0"`
	Price         float64 `json:"price" binding:"gte=0"`
	Link          string  `json:"link" binding:"omitempty,url"`
	Tags          []uint  `json:"tags"`
	Ingredients   []uint  `json:"ingredients"`
}

type PatchRecipeRequest struct {
	Title         *string  `json:"title" binding:"omitempty,min=1"`
	TimeInMinutes *int     `json:"time_in_minutes" binding:"omitempty,gt=0"`
	Price         *float64 `json:"price" binding:"omitempty,gte=0"`
	Link          *string  `json:"link" binding:"omitempty,url"`
	Tags          *[]uint  `json:"tags"`
	Ingredients   *[]uint  `json:"ingredients"`
}

// Response shapes. Wire format is mapped explicitly instead of leaking
// the storage models.

type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type NamedResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// RecipeSummary is the list view: associations stay as id lists.
type RecipeSummary struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	TimeInMinutes int     `json:"time_in_minutes"`
	Price         float64 `json:"price"`
	Link          string  `json:"link"`
	Image         string  `json:"image"`
	Tags          []uint  `json:"tags"`
	Ingredients   []uint  `json:"ingredients"`
}

// RecipeDetail expands tags and ingredients to full objects.
type RecipeDetail struct {
	ID            uint            `json:"id"`
	Title         string          `json:"title"`
	TimeInMinutes int             `json:"time_in_minutes"`
	Price         float64         `json:"price"`
	Link          string          `json:"link"`
	Image         string          `json:"image"`
	Tags          []NamedResponse `json:"tags"`
	Ingredients   []NamedResponse `json:"ingredients"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{ID: user.ID, Email: user.Email, Name: user.Name}
}

func toTagResponses(tags []models.Tag) []NamedResponse {
	out := make([]NamedResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, NamedResponse{ID: t.ID, Name: t.Name})
	}
	return out
}

func toIngredientResponses(ingredients []models.Ingredient) []NamedResponse {
	out := make([]NamedResponse, 0, len(ingredients))
	for _, i := range ingredients {
		out = append(out, NamedResponse{ID: i.ID, Name: i.Name})
	}
	return out
}

func toRecipeSummary(recipe *models.Recipe, recipes *service.RecipeService) RecipeSummary {
	tagIDs := make([]uint, 0, len(recipe.Tags))
	for _, t := range recipe.Tags {
		tagIDs = append(tagIDs, t.ID)
	}
	ingredientIDs := make([]uint, 0, len(recipe.Ingredients))
	for _, i := range recipe.Ingredients {
		ingredientIDs = append(ingredientIDs, i.ID)
	}
	return RecipeSummary{
		ID:            recipe.ID,
		Title:         recipe.Title,
		TimeInMinutes: recipe.TimeInMinutes,
		Price:         recipe.Price,
		Link:          recipe.Link,
		Image:         recipes.ImageURL(recipe),
		Tags:          tagIDs,
		Ingredients:   ingredientIDs,
	}
}

func toRecipeDetail(recipe *models.Recipe, recipes *service.RecipeService) RecipeDetail {
	return RecipeDetail{
		ID:            recipe.ID,
		Title:         recipe.Title,
		TimeInMinutes: recipe.TimeInMinutes,
		Price:         recipe.Price,
		Link:          recipe.Link,
		Image:         recipes.ImageURL(recipe),
		Tags:          toTagResponses(recipe.Tags),
		Ingredients:   toIngredientResponses(recipe.Ingredients),
	}
}
