package models

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecipeImagePathKeepsExtension(t *testing.T) {
	path := RecipeImagePath("myimage.jpg")

	assert.True(t, strings.HasPrefix(path, "uploads/recipe/"))
	assert.True(t, strings.HasSuffix(path, ".jpg"))
}

func TestRecipeImagePathIsRandom(t *testing.T) {
	pattern := regexp.MustCompile(`^uploads/recipe/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.png$`)

	first := RecipeImagePath("a.png")
	second := RecipeImagePath("a.png")

	assert.Regexp(t, pattern, first)
	assert.Regexp(t, pattern, second)
	assert.NotEqual(t, first, second)
}

func TestRecipeImagePathNoExtension(t *testing.T) {
	path := RecipeImagePath("rawfile")

	assert.False(t, strings.Contains(path, "."))
}
