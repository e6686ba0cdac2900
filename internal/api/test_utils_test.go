package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	. "github.com/savora-app/backend/internal/api"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/savora-app/backend/internal/database"
	"github.com/savora-app/backend/internal/repository"
	"github.com/savora-app/backend/internal/router"
	"github.com/savora-app/backend/internal/service"
)

// testEnv holds the assembled application backed by an in-memory
// database and a temp-dir media store.
type testEnv struct {
	Router  *gin.Engine
	DB      *gorm.DB
	Users   *service.UserService
	Auth    *service.AuthService
	Recipes *service.RecipeService
	Media   *service.LocalMediaStore
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// A named shared-cache database so every pooled connection sees the
	// same schema, isolated per test by name.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)

	media := service.NewLocalMediaStore(t.TempDir())
	users := service.NewUserService(userRepo)
	auth := service.NewAuthService(userRepo, tokenRepo, "test-secret", 0, nil)
	recipes := service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, media)

	engine := router.SetupRouter(
		NewUserHandler(users, auth),
		NewTagHandler(tagRepo),
		NewIngredientHandler(ingredientRepo),
		NewRecipeHandler(recipes),
		auth,
		router.Options{AllowedOrigin: "http://localhost:5173", MediaRoot: media.Root},
	)

	return &testEnv{
		Router:  engine,
		DB:      db,
		Users:   users,
		Auth:    auth,
		Recipes: recipes,
		Media:   media,
	}
}

// createUserAndToken registers a user directly through the services and
// returns the user's bearer token.
func (e *testEnv) createUserAndToken(t *testing.T, email, password string) string {
	t.Helper()
	_, err := e.Users.Create(context.Background(), email, password, "Test User")
	require.NoError(t, err)
	token, err := e.Auth.IssueToken(context.Background(), email, password)
	require.NoError(t, err)
	return token
}

// request performs a JSON request against the test router.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
