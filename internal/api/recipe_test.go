package api_test

import (
	"bytes"
	. "github.com/savora-app/backend/internal/api"
	"image"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savora-app/backend/internal/models"
)

func (e *testEnv) createTag(t *testing.T, token, name string) uint {
	t.Helper()
	w := e.request(t, "POST", "/api/v1/tags", token, map[string]interface{}{"name": name})
	requireStatus(t, w, 201)
	var resp NamedResponse
	decodeJSON(t, w, &resp)
	return resp.ID
}

func (e *testEnv) createIngredient(t *testing.T, token, name string) uint {
	t.Helper()
	w := e.request(t, "POST", "/api/v1/ingredients", token, map[string]interface{}{"name": name})
	requireStatus(t, w, 201)
	var resp NamedResponse
	decodeJSON(t, w, &resp)
	return resp.ID
}

func (e *testEnv) createRecipe(t *testing.T, token string, payload map[string]interface{}) RecipeDetail {
	t.Helper()
	body := map[string]interface{}{
		"title":           "Recipe",
		"time_in_minutes": 10,
		"price":           6.0,
	}
	for k, v := range payload {
		body[k] = v
	}
	w := e.request(t, "POST", "/api/v1/recipes", token, body)
	requireStatus(t, w, 201)
	var resp RecipeDetail
	decodeJSON(t, w, &resp)
	return resp
}

func TestListRecipesRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)

	requireStatus(t, env.request(t, "GET", "/api/v1/recipes", "", nil), 401)
}

func TestListRecipesNewestFirst(t *testing.T) {
	env := setupTestEnv(t)
	token := env.createUserAndToken(t, "email@email.com", "1qazxsw2")

	first := env.createRecipe(t, token, map[string]interface{}{"title": "First"})
	second := env.createRecipe(t, token, map[string]interface{}{"title": "Second"})

	w := env.request(t, "GET", "/api/v1/recipes", token, nil)
	requireStatus(t, w, 200)

	var recipes []RecipeSummary
	decodeJSON(t, w, &recipes)
	require.Len(t, recipes, 2)
	assert.Equal(t, second.ID, recipes[0].ID)
	assert.Equal(t, first.ID, recipes[1].ID)
}

func TestListRecipesLimitedToUser(t *testing.T) {
	env := setupTestEnv(t)
	token := env.createUserAndToken(t, "email@email.com", "1qazxsw2")
	otherToken := env.createUserAndToken(t, "email_two@email.com", "1qazxsw2")

	env.createRecipe(t, otherToken, map[string]interface{}{"title": "Not mine"})
	mine := env.createRecipe(t, token, map[string]interface{}{"title": "Mine"})

	w := env.request(t, "GET", "/api/v1/recipes", token, nil)
	requireStatus(t, w, 200)

	var recipes []RecipeSummary
	decodeJSON(t, w, &recipes)
	require.Len(t, recipes, 1)
	assert.Equal(t, mine.ID, recipes[0].ID)
}

func TestListRecipesFilterByTags(t *testing.T) {
	env := setupTestEnv(t)
	token := env.createUserAndToken(t, "email@email.com", "1qazxsw2")

	vegan := env.createTag(t, token, "Vegan")
	quick := env.createTag(t, token, "Quick")

	tagged := env.createRecipe(t, token, map[string]interface{}{"title": "Soup", "tags": []uint{vegan}})
	alsoTagged := env.createRecipe(t, token, map[string]interface{}{"title": "Salad", "tags": []uint{quick}})
	env.createRecipe(t, token, map[string]interface{}{"title": "Steak"})

	// Whitespace after the comma is tolerated.
	w := env.request(t, "GET", "/api/v1/recipes?tags="+itoa(vegan)+",%20"+itoa(quick), token, nil)
	requireStatus(t, w, 200)

	var recipes []RecipeSummary
	decodeJSON(t, w, &recipes)
	require.Len(t, recipes, 2)
	ids := []uint{recipes[0].ID, recipes[1].ID}
	assert.ElementsMatch(t, []uint{tagged.ID, alsoTagged.ID}, ids)
}

func TestListRecipesFilterByIngredients(t *testing.T) {
	env := setupTestEnv(t)
	token := env.createUserAndToken(t, "email@email.com", "1qazxsw2")

	kale := env.createIngredient(t, token, "Kale")

	match := env.createRecipe(t, token, map[string]interface{}{"title": "Green", "ingredients": []uint{kale}})
	env.createRecipe(t, token, map[string]interface{}{"title": "Plain"})

	w := env.request(t, "GET", "/api/v1/recipes?ingredients="+itoa(kale), token, nil)
	requireStatus(t, w, 200)

	var recipes []RecipeSummary
	decodeJSON(t, w, &recipes)
	require.Len(t, recipes, 1)
	assert.Equal(t, match.ID, recipes[0].ID)
}

func TestListRecipesRejectsMalformedFilter(t *testing.T) {
	env := setupTestEnv(t)
	token := env.createUserAndToken(t, "email@email.com", "1qazxsw2")

	requireStatus(t, env.request(t, "GET", "/api/v1/recipes?tags=abc", token, nil), 400)
}

func TestGetRecipeDetailExpandsAssociations(t *testing.T) {
	env := setupTestEnv(t)
	token := env.createUserAndToken(t, "a@a.com", "pw123456")

	vegan := env.createTag(t, token, "Vegan")
	created := env.createRecipe(t, token, map[string]interface{}{
		"title":           "Soup",
		"time_in_minutes": 10,
		"price":           5.0,
		"tags":            []uint{vegan},
	})

	w := env.request(t, "GET", "/api/v1/recipes/"+itoa(created.ID), token, nil)
	requireStatus(t, w, 200)

	var detail RecipeDetail
	decodeJSON(t, w, &detail)
	require.Len(t, detail.Tags, 1)
	assert.Equal(t, vegan, detail.Tags[0].ID)
	assert.Equal(t, "Vegan", detail.Tags[0].Name)
}

func TestGetRecipeOwnedByOtherUserIsNotFound(t *testing.T) {
	env := setupTestEnv(t)
	token := env.createUserAndToken(t, "email@email.com", "1qazxsw2")
	otherToken := env.createUserAndToken(t, "email_two@email.com", "1qazxsw2")

	theirs := env.createRecipe(t, otherToken, nil)

	requireStatus(t, env.request(t, "GET", "/api/v1/recipes/"+itoa(theirs.ID), token, nil), 404)
}

func TestCreateRecipeUnknownTagID(t *testing.T) {
	env := setupTestEnv(t)
	token := env.createUserAndToken(t, "email@email.com", "1qazxsw2")

	w := env.request(t, "POST", "/api/v1/recipes", token, map[string]interface{}{
		"title":           "Recipe",
		"time_in_minutes": 10,
		"price":           6.0,
		"tags":            []uint{9999},
	})
	requireStatus(t, w, 400)
}

func TestCreateRecipeWithAnotherUsersTag(t *testing.T) {
	env := setupTestEnv(t)
	token := env.createUserAndToken(t, "email@email.com", "1qazxsw2")
	otherToken := env.createUserAndToken(t, "email_two@email.com", "1qazxsw2")

	theirTag := env.createTag(t, otherToken, "Fruity")

	w := env.request(t, "POST", "/api/v1/recipes", token, map[string]interface{}{
		"title":           "Recipe",
		"time_in_minutes": 10,
		"price":           6.0,
		"tags":            []uint{theirTag},
	})
	requireStatus(t, w, 400)
}

func TestPatchRecipeReplacesTags(t *testing.T) {
	env := setupTestEnv(t)
	token := env.createUserAndToken(t, "email@email.com", "1qazxsw2")

	oldTag := env.createTag(t, token, "Old")
	newTag := env.createTag(t, token, "New")
	created := env.createRecipe(t, token, map[string]interface{}{"tags": []uint{oldTag}})

	w := env.request(t, "PATCH", "/api/v1/recipes/"+itoa(created.ID), token, map[string]interface{}{
		"tags": []uint{newTag},
	})
	requireStatus(t, w, 200)

	var detail RecipeDetail
	decodeJSON(t, w, &detail)
	require.Len(t, detail.Tags, 1)
	assert.Equal(t, newTag, detail.Tags[0].ID)
	// Scalars untouched by the partial update.
	assert.Equal(t, "Recipe", detail.Title)
}

func TestPatchRecipeWithoutTagsLeavesThemAlone(t *testing.T) {
	env := setupTestEnv(t)
	token := env.createUserAndToken(t, "email@email.com", "1qazxsw2")

	tag := env.createTag(t, token, "Keep")
	created := env.createRecipe(t, token, map[string]interface{}{"tags": []uint{tag}})

	w := env.request(t, "PATCH", "/api/v1/recipes/"+itoa(created.ID), token, map[string]interface{}{
		"title": "Renamed",
	})
	requireStatus(t, w, 200)

	var detail RecipeDetail
	decodeJSON(t, w, &detail)
	assert.Equal(t, "Renamed", detail.Title)
	require.Len(t, detail.Tags, 1)
	assert.Equal(t, tag, detail.Tags[0].ID)
}

func TestPutRecipeWithoutTagsClearsThem(t *testing.T) {
	env := setupTestEnv(t)
	token := env.createUserAndToken(t, "email@email.com", "1qazxsw2")

	tag := env.createTag(t, token, "Doomed")
	created := env.createRecipe(t, token, map[string]interface{}{"tags": []uint{tag}})

	w := env.request(t, "PUT", "/api/v1/recipes/"+itoa(created.ID), token, map[string]interface{}{
		"title":           "Spaghetti carbonara",
		"time_in_minutes": 25,
		"price":           5.0,
	})
	requireStatus(t, w, 200)

	var detail RecipeDetail
	decodeJSON(t, w, &detail)
	assert.Equal(t, "Spaghetti carbonara", detail.Title)
	assert.Empty(t, detail.Tags)
}

func TestDeleteRecipeRemovesImageFile(t *testing.T) {
	env := setupTestEnv(t)
	token := env.createUserAndToken(t, "email@email.com", "1qazxsw2")

	created := env.createRecipe(t, token, nil)
	env.uploadImage(t, token, created.ID, "photo.png", validPNG(t))

	var recipe models.Recipe
	require.NoError(t, env.DB.First(&recipe, created.ID).Error)
	stored := filepath.Join(env.Media.Root, filepath.FromSlash(recipe.Image))
	require.FileExists(t, stored)

	requireStatus(t, env.request(t, "DELETE", "/api/v1/recipes/"+itoa(created.ID), token, nil), 204)
	assert.NoFileExists(t, stored)
	requireStatus(t, env.request(t, "GET", "/api/v1/recipes/"+itoa(created.ID), token, nil), 404)
}

func TestUploadImage(t *testing.T) {
	env := setupTestEnv(t)
	token := env.createUserAndToken(t, "email@email.com", "1qazxsw2")

	created := env.createRecipe(t, token, nil)
	w := env.uploadImage(t, token, created.ID, "myimage.png", validPNG(t))
	requireStatus(t, w, 200)

	var recipe models.Recipe
	require.NoError(t, env.DB.First(&recipe, created.ID).Error)
	assert.Regexp(t, regexp.MustCompile(`^uploads/recipe/[0-9a-f-]{36}\.png$`), recipe.Image)
	assert.FileExists(t, filepath.Join(env.Media.Root, filepath.FromSlash(recipe.Image)))
}

func TestUploadImageInvalidPayload(t *testing.T) {
	env := setupTestEnv(t)
	token := env.createUserAndToken(t, "email@email.com", "1qazxsw2")

	created := env.createRecipe(t, token, nil)
	requireStatus(t, env.uploadImage(t, token, created.ID, "good.png", validPNG(t)), 200)

	var before models.Recipe
	require.NoError(t, env.DB.First(&before, created.ID).Error)

	requireStatus(t, env.uploadImage(t, token, created.ID, "notimage.jpg", []byte("notimage")), 400)

	var after models.Recipe
	require.NoError(t, env.DB.First(&after, created.ID).Error)
	assert.Equal(t, before.Image, after.Image)
	assert.FileExists(t, filepath.Join(env.Media.Root, filepath.FromSlash(after.Image)))
}

func TestUploadImageTooLarge(t *testing.T) {
	env := setupTestEnv(t)
	token := env.createUserAndToken(t, "email@email.com", "1qazxsw2")

	created := env.createRecipe(t, token, nil)

	// A decodable image header followed by padding past the size cap:
	// the upload must be rejected whole, never stored as a truncated
	// prefix that still parses.
	payload := append(validPNG(t), make([]byte, MaxImageUploadBytes)...)
	requireStatus(t, env.uploadImage(t, token, created.ID, "huge.png", payload), 400)

	var recipe models.Recipe
	require.NoError(t, env.DB.First(&recipe, created.ID).Error)
	assert.Empty(t, recipe.Image)
}

func (e *testEnv) uploadImage(t *testing.T, token string, id uint, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/recipes/"+itoa(id)+"/image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

func validPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
