package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/savora-app/backend/internal/models"
)

// TagRepository defines the interface for tag data operations. All
// reads are scoped to the owning user.
type TagRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.Tag, error)
	FindByIDs(ctx context.Context, userID uint, ids []uint) ([]models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository instance.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) ListByUser(ctx context.Context, userID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Scopes(ownedBy(userID)).Order("name DESC").Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) FindByIDs(ctx context.Context, userID uint, ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	err := r.db.WithContext(ctx).Scopes(ownedBy(userID)).Where("id IN ?", ids).Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find tags by ids: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}
