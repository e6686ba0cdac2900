package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/savora-app/backend/internal/api"
	"github.com/savora-app/backend/internal/middleware"
	"github.com/savora-app/backend/internal/service"
)

// Options carry the handler-independent knobs for route setup.
type Options struct {
	AllowedOrigin string
	// MediaRoot, when non-empty, is served at /media for the local
	// storage backend.
	MediaRoot string
}

// SetupRouter configures the application routes
func SetupRouter(
	userHandler *api.UserHandler,
	tagHandler *api.TagHandler,
	ingredientHandler *api.IngredientHandler,
	recipeHandler *api.RecipeHandler,
	auth *service.AuthService,
	opts Options,
) *gin.Engine {
	router := gin.Default()

	// A profile-only endpoint must answer 405, not 404, to unsupported
	// verbs.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	router.Use(middleware.CORS(opts.AllowedOrigin))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.MediaRoot != "" {
		router.Static("/media", opts.MediaRoot)
	}

	authMW := middleware.AuthMiddleware(auth)

	// API v1 routes
	v1 := router.Group("/api/v1")

	userHandler.RegisterRoutes(v1, authMW)

	// Protected routes
	protected := v1.Group("")
	protected.Use(authMW)
	{
		tagHandler.RegisterRoutes(protected)
		ingredientHandler.RegisterRoutes(protected)
		recipeHandler.RegisterRoutes(protected)
	}

	return router
}
