package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/savora-app/backend/config"
	"github.com/savora-app/backend/internal/api"
	"github.com/savora-app/backend/internal/database"
	"github.com/savora-app/backend/internal/repository"
	"github.com/savora-app/backend/internal/router"
	"github.com/savora-app/backend/internal/service"
)

// Server wires the application together and owns the HTTP listener.
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	http   *http.Server
}

// New builds the full dependency graph from configuration.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	var media service.MediaStore
	mediaRoot := ""
	switch cfg.MediaBackend {
	case "s3":
		s3cfg, err := config.NewS3Config(context.Background(), cfg.S3Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to configure S3 storage: %w", err)
		}
		if err := s3cfg.SetupBucketPolicy(context.Background()); err != nil {
			log.Printf("Failed to apply bucket policy (continuing): %v", err)
		}
		media = service.NewS3MediaStore(s3cfg)
	default:
		media = service.NewLocalMediaStore(cfg.MediaRoot)
		mediaRoot = cfg.MediaRoot
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)

	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(userRepo, tokenRepo, cfg.TokenSecret, cfg.TokenTTL, redisClient)
	recipeService := service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, media)

	engine := router.SetupRouter(
		api.NewUserHandler(userService, authService),
		api.NewTagHandler(tagRepo),
		api.NewIngredientHandler(ingredientRepo),
		api.NewRecipeHandler(recipeService),
		authService,
		router.Options{
			AllowedOrigin: cfg.AllowedOrigin,
			MediaRoot:     mediaRoot,
		},
	)

	return &Server{
		cfg:    cfg,
		engine: engine,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
	}, nil
}

// Start runs the HTTP listener until Shutdown is called.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
