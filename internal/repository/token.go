package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/savora-app/backend/internal/models"
)

// TokenRepository defines the interface for auth token persistence.
type TokenRepository interface {
	FindByUser(ctx context.Context, userID uint) (*models.AuthToken, error)
	FindByKey(ctx context.Context, key string) (*models.AuthToken, error)
	Create(ctx context.Context, token *models.AuthToken) error
	DeleteByUser(ctx context.Context, userID uint) error
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepository instance.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) FindByUser(ctx context.Context, userID uint) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error; err != nil {
		return nil, fmt.Errorf("failed to find token for user %d: %w", userID, err)
	}
	return &token, nil
}

func (r *tokenRepository) FindByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&token).Error; err != nil {
		return nil, fmt.Errorf("failed to find token by key: %w", err)
	}
	return &token, nil
}

func (r *tokenRepository) Create(ctx context.Context, token *models.AuthToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

func (r *tokenRepository) DeleteByUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error; err != nil {
		return fmt.Errorf("failed to delete token for user %d: %w", userID, err)
	}
	return nil
}
