package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/savora-app/backend/internal/middleware"
	"github.com/savora-app/backend/internal/models"
	"github.com/savora-app/backend/internal/repository"
)

// TagHandler serves the tag list/create endpoints.
type TagHandler struct {
	tags repository.TagRepository
}

// NewTagHandler creates a new TagHandler instance.
func NewTagHandler(tags repository.TagRepository) *TagHandler {
	return &TagHandler{tags: tags}
}

// RegisterRoutes wires the tag endpoints onto the protected API group.
func (h *TagHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.POST("", h.CreateTag)
	}
}

func (h *TagHandler) ListTags(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	tags, err := h.tags.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tags"})
		return
	}

	out := make([]NamedResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, NamedResponse{ID: t.ID, Name: t.Name})
	}
	c.JSON(http.StatusOK, out)
}

func (h *TagHandler) CreateTag(c *gin.Context) {
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

	tag := &models.Tag{UserID: user.ID, Name: name}
	if err := h.tags.Create(c.Request.Context(), tag); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create tag"})
		return
	}

	c.JSON(http.StatusCreated, NamedResponse{ID: tag.ID, Name: tag.Name})
}
