package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/savora-app/backend/internal/models"
	"github.com/savora-app/backend/internal/repository"
)

const (
	tokenCachePrefix = "authtoken:"
	tokenCacheTTL    = 5 * time.Minute
)

// AuthService issues and resolves bearer tokens. A user has a single
// durable token: repeat logins return the same key, and resolution
// always consults the stored row so a rotated key stops working even
// though the key itself is a signed JWS.
type AuthService struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	secret string
	ttl    time.Duration
	cache  *redis.Client // optional, may be nil
}

// NewAuthService creates a new AuthService instance. A zero ttl means
// tokens never expire. cache may be nil to disable the Redis cache.
func NewAuthService(users repository.UserRepository, tokens repository.TokenRepository, secret string, ttl time.Duration, cache *redis.Client) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		secret: secret,
		ttl:    ttl,
		cache:  cache,
	}
}

// IssueToken validates credentials and returns the user's token key,
// minting one if the user has none yet. Every failure maps to
// ErrInvalidCredentials so the response never reveals which factor
// failed.
func (s *AuthService) IssueToken(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.FindByUser(ctx, user.ID)
	if err == nil {
		if s.ttl == 0 || time.Since(token.CreatedAt) < s.ttl {
			return token.Key, nil
		}
		// Expired: rotate.
		if err := s.tokens.DeleteByUser(ctx, user.ID); err != nil {
			return "", err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	key, err := s.mintKey(user.ID)
	if err != nil {
		return "", err
	}
	if err := s.tokens.Create(ctx, &models.AuthToken{UserID: user.ID, Key: key}); err != nil {
		return "", err
	}
	return key, nil
}

// ResolveToken maps a bearer key back to its user. Signature, stored
// row, and account status are all checked; any failure is
// ErrInvalidToken.
func (s *AuthService) ResolveToken(ctx context.Context, key string) (*models.User, error) {
	userID, err := s.verifyKey(key)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if !s.cachedKeyMatches(ctx, userID, key) {
		token, err := s.tokens.FindByKey(ctx, key)
		if err != nil || token.UserID != userID {
			return nil, ErrInvalidToken
		}
		if s.ttl > 0 && time.Since(token.CreatedAt) >= s.ttl {
			return nil, ErrInvalidToken
		}
		s.cacheKey(ctx, userID, key)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidToken
	}
	return user, nil
}

// RevokeToken drops the stored token for a user so the key stops
// resolving on the next cache miss.
func (s *AuthService) RevokeToken(ctx context.Context, userID uint) error {
	if s.cache != nil {
		s.cache.Del(ctx, tokenCacheKey(userID))
	}
	return s.tokens.DeleteByUser(ctx, userID)
}

func (s *AuthService) mintKey(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": strconv.FormatUint(uint64(userID), 10),
		"jti":     uuid.New().String(),
	}
	if s.ttl > 0 {
		claims["exp"] = time.Now().Add(s.ttl).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *AuthService) verifyKey(key string) (uint, error) {
	token, err := jwt.Parse(key, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	idStr, ok := claims["user_id"].(string)
	if !ok {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// Expiry is checked against the stored row's CreatedAt, so only
// non-expiring tokens are safe to serve from the cache; with a ttl
// configured every resolution hits the database.
func (s *AuthService) cachedKeyMatches(ctx context.Context, userID uint, key string) bool {
	if s.cache == nil || s.ttl > 0 {
		return false
	}
	cached, err := s.cache.Get(ctx, tokenCacheKey(userID)).Result()
	return err == nil && cached == key
}

func (s *AuthService) cacheKey(ctx context.Context, userID uint, key string) {
	if s.cache == nil || s.ttl > 0 {
		return
	}
	s.cache.Set(ctx, tokenCacheKey(userID), key, tokenCacheTTL)
}

func tokenCacheKey(userID uint) string {
	return fmt.Sprintf("%s%d", tokenCachePrefix, userID)
}
