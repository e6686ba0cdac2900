package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/savora-app/backend/internal/middleware"
	"github.com/savora-app/backend/internal/models"
	"github.com/savora-app/backend/internal/repository"
)

// IngredientHandler serves the ingredient list/create endpoints.
type IngredientHandler struct {
	ingredients repository.IngredientRepository
}

// NewIngredientHandler creates a new IngredientHandler instance.
func NewIngredientHandler(ingredients repository.IngredientRepository) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients}
}

// RegisterRoutes wires the ingredient endpoints onto the protected API
// group.
func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.POST("", h.CreateIngredient)
	}
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ingredients, err := h.ingredients.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch ingredients"})
		return
	}

	out := make([]NamedResponse, 0, len(ingredients))
	for _, i := range ingredients {
		out = append(out, NamedResponse{ID: i.ID, Name: i.Name})
	}
	c.JSON(http.StatusOK, out)
}

func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CreateNamedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must not be blank"})
		return
	}

	ingredient := &models.Ingredient{UserID: user.ID, Name: name}
	if err := h.ingredients.Create(c.Request.Context(), ingredient); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create ingredient"})
		return
	}

	c.JSON(http.StatusCreated, NamedResponse{ID: ingredient.ID, Name: ingredient.Name})
}
